package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jackc/pgx/v5"
	"github.com/renderpipeline/engine/internal/component"
)

// TransformRow is the stored transform of one named entity.
type TransformRow struct {
	Entity   string
	Position [3]float32
	Rotation [4]float32 // x, y, z, w
	Scale    [3]float32
}

// FromTransform converts a transform component to a row.
func FromTransform(entity string, t component.Transform) TransformRow {
	return TransformRow{
		Entity:   entity,
		Position: t.Position,
		Rotation: [4]float32{t.Rotation.V[0], t.Rotation.V[1], t.Rotation.V[2], t.Rotation.W},
		Scale:    t.Scale,
	}
}

// Transform converts the row back to a component.
func (r TransformRow) Transform() component.Transform {
	return component.Transform{
		Position: r.Position,
		Rotation: mgl32.Quat{W: r.Rotation[3], V: mgl32.Vec3{r.Rotation[0], r.Rotation[1], r.Rotation[2]}}.Normalize(),
		Scale:    r.Scale,
	}
}

// Snapshot is the header of a saved scene.
type Snapshot struct {
	Scene   string
	Frames  uint64
	SavedAt time.Time
}

type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Save replaces the stored transforms of scene with rows in one transaction.
func (r *SnapshotRepo) Save(ctx context.Context, scene string, frames uint64, rows []TransformRow) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("snapshot begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO scene_snapshots (scene, frames, saved_at) VALUES ($1, $2, now())
		 ON CONFLICT (scene) DO UPDATE SET frames = EXCLUDED.frames, saved_at = EXCLUDED.saved_at`,
		scene, int64(frames),
	); err != nil {
		return fmt.Errorf("snapshot header: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM scene_transforms WHERE scene = $1`, scene); err != nil {
		return fmt.Errorf("snapshot clear: %w", err)
	}
	for _, row := range rows {
		if _, err := tx.Exec(ctx,
			`INSERT INTO scene_transforms (scene, entity_name,
			        pos_x, pos_y, pos_z, rot_x, rot_y, rot_z, rot_w, scale_x, scale_y, scale_z)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			scene, row.Entity,
			row.Position[0], row.Position[1], row.Position[2],
			row.Rotation[0], row.Rotation[1], row.Rotation[2], row.Rotation[3],
			row.Scale[0], row.Scale[1], row.Scale[2],
		); err != nil {
			return fmt.Errorf("snapshot insert %s: %w", row.Entity, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("snapshot commit: %w", err)
	}
	r.db.log.Debug("scene snapshot saved")
	return nil
}

// Load returns the stored transforms of scene ordered by entity name. It
// returns no rows and no error when the scene was never saved.
func (r *SnapshotRepo) Load(ctx context.Context, scene string) ([]TransformRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT entity_name, pos_x, pos_y, pos_z, rot_x, rot_y, rot_z, rot_w, scale_x, scale_y, scale_z
		 FROM scene_transforms
		 WHERE scene = $1
		 ORDER BY entity_name`, scene,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []TransformRow
	for rows.Next() {
		var t TransformRow
		if err := rows.Scan(
			&t.Entity,
			&t.Position[0], &t.Position[1], &t.Position[2],
			&t.Rotation[0], &t.Rotation[1], &t.Rotation[2], &t.Rotation[3],
			&t.Scale[0], &t.Scale[1], &t.Scale[2],
		); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// Header returns the snapshot header of scene, or nil if none was saved.
func (r *SnapshotRepo) Header(ctx context.Context, scene string) (*Snapshot, error) {
	s := &Snapshot{Scene: scene}
	var frames int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT frames, saved_at FROM scene_snapshots WHERE scene = $1`, scene,
	).Scan(&frames, &s.SavedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.Frames = uint64(frames)
	return s, nil
}
