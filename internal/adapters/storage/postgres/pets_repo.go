package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"pet-adoption-api/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, supplier_id,
	name, species, breed, age, description, mood, image_url,
	is_adopted, adopted_by, adoption_date,
	created_at, updated_at
`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (
			id, supplier_id,
			name, species, breed, age, description, mood, image_url,
			is_adopted, adopted_by, adoption_date,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		p.ID,
		p.SupplierID,
		p.Name,
		p.Species,
		p.Breed,
		toNullInt(p.Age),
		p.Description,
		string(p.Mood),
		p.ImageURL,
		p.IsAdopted,
		toNullString(p.AdoptedByID),
		toNullTime(p.AdoptionDate),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			species = $3,
			breed = $4,
			age = $5,
			description = $6,
			mood = $7,
			image_url = $8,
			updated_at = $9
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Species,
		p.Breed,
		toNullInt(p.Age),
		p.Description,
		string(p.Mood),
		p.ImageURL,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)
	p, err := scanPet(row)
	if err == sql.ErrNoRows {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, err
}

func (r *PetsRepo) List(ctx context.Context, f pets.Filter) ([]pets.Pet, error) {
	// WHERE dinámico con los 3 filtros opcionales
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if f.Species != "" {
		args = append(args, f.Species)
		where = append(where, "LOWER(species) = LOWER($"+strconv.Itoa(len(args))+")")
	}
	if f.Mood != "" {
		args = append(args, string(f.Mood))
		where = append(where, "mood = $"+strconv.Itoa(len(args)))
	}
	if f.Adopted != nil {
		args = append(args, *f.Adopted)
		where = append(where, "is_adopted = $"+strconv.Itoa(len(args)))
	}

	q := `SELECT ` + petColumns + ` FROM pets`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at ASC"

	return r.queryPets(ctx, q, args...)
}

func (r *PetsRepo) ListBySupplier(ctx context.Context, supplierID string) ([]pets.Pet, error) {
	return r.queryPets(ctx,
		`SELECT `+petColumns+` FROM pets WHERE supplier_id = $1 ORDER BY created_at ASC`,
		supplierID,
	)
}

func (r *PetsRepo) ListByAdopter(ctx context.Context, adopterID string) ([]pets.Pet, error) {
	return r.queryPets(ctx,
		`SELECT `+petColumns+` FROM pets WHERE adopted_by = $1 ORDER BY created_at ASC`,
		adopterID,
	)
}

func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

// MarkAdopted deja que Postgres arbitre la carrera: el UPDATE condicional
// sobre is_adopted = FALSE solo puede ganarlo un adoptante.
func (r *PetsRepo) MarkAdopted(ctx context.Context, petID, adopterID string, at time.Time) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE pets
		SET
			is_adopted = TRUE,
			adopted_by = $2,
			adoption_date = $3,
			updated_at = $3
		WHERE id = $1 AND is_adopted = FALSE
		RETURNING `+petColumns+`
	`, petID, adopterID, at)

	p, err := scanPet(row)
	if err == sql.ErrNoRows {
		// O no existe, o alguien llegó primero.
		if _, getErr := r.GetByID(ctx, petID); getErr != nil {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, pets.ErrAlreadyAdopted
	}
	return p, err
}

func (r *PetsRepo) Count(ctx context.Context) (total, adopted int, err error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_adopted)
		FROM pets
	`)
	if err := row.Scan(&total, &adopted); err != nil {
		return 0, 0, err
	}
	return total, adopted, nil
}

func (r *PetsRepo) queryPets(ctx context.Context, q string, args ...any) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var (
		p       pets.Pet
		mood    string
		age     sql.NullInt64
		adopter sql.NullString
		adopted sql.NullTime
	)

	if err := row.Scan(
		&p.ID,
		&p.SupplierID,
		&p.Name,
		&p.Species,
		&p.Breed,
		&age,
		&p.Description,
		&mood,
		&p.ImageURL,
		&p.IsAdopted,
		&adopter,
		&adopted,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}

	p.Mood = pets.Mood(mood)
	if age.Valid {
		v := int(age.Int64)
		p.Age = &v
	}
	if adopter.Valid {
		v := adopter.String
		p.AdoptedByID = &v
	}
	if adopted.Valid {
		t := adopted.Time
		p.AdoptionDate = &t
	}
	return p, nil
}

func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func toNullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
