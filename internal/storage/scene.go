package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"scenecards/internal/domain"
)

// ErrNotFound is returned when a scene or card does not exist.
var ErrNotFound = errors.New("not found")

// SceneStore implements domain.SceneStore using SQLite.
type SceneStore struct {
	db *DB
}

func NewSceneStore(db *DB) *SceneStore {
	return &SceneStore{db: db}
}

// ── Scenes ─────────────────────────────────────────────────

func (s *SceneStore) CreateScene(sc *domain.Scene) error {
	now := time.Now()
	sc.CreatedAt = now
	sc.UpdatedAt = now
	_, err := s.db.conn.Exec(
		`INSERT INTO scenes (id, name, icon, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		sc.ID, sc.Name, sc.Icon, sc.CreatedAt, sc.UpdatedAt,
	)
	return err
}

func (s *SceneStore) GetScene(id string) (*domain.Scene, error) {
	sc := &domain.Scene{}
	err := s.db.conn.QueryRow(
		`SELECT id, name, icon, created_at, updated_at FROM scenes WHERE id = ?`, id,
	).Scan(&sc.ID, &sc.Name, &sc.Icon, &sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get scene: %w", notFound(err))
	}
	return sc, nil
}

func (s *SceneStore) ListScenes() ([]domain.Scene, error) {
	rows, err := s.db.conn.Query(`SELECT id, name, icon, created_at, updated_at FROM scenes ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenes []domain.Scene
	for rows.Next() {
		var sc domain.Scene
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.Icon, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
			return nil, err
		}
		scenes = append(scenes, sc)
	}
	return scenes, rows.Err()
}

func (s *SceneStore) UpdateScene(sc *domain.Scene) error {
	sc.UpdatedAt = time.Now()
	_, err := s.db.conn.Exec(
		`UPDATE scenes SET name = ?, icon = ?, updated_at = ? WHERE id = ?`,
		sc.Name, sc.Icon, sc.UpdatedAt, sc.ID,
	)
	return err
}

func (s *SceneStore) DeleteScene(id string) error {
	_, err := s.db.conn.Exec(`DELETE FROM scenes WHERE id = ?`, id)
	return err
}

// ── Cards ──────────────────────────────────────────────────

const cardColumns = `id, scene_id, title, content, sort_order, drawing_data, created_at, updated_at`

func scanCard(row interface{ Scan(...any) error }, c *domain.Card) error {
	return row.Scan(&c.ID, &c.SceneID, &c.Title, &c.Content, &c.Order, &c.DrawingData, &c.CreatedAt, &c.UpdatedAt)
}

func (s *SceneStore) CreateCard(c *domain.Card) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := s.db.conn.Exec(
		`INSERT INTO cards (`+cardColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.SceneID, c.Title, c.Content, c.Order, c.DrawingData, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (s *SceneStore) GetCard(id string) (*domain.Card, error) {
	c := &domain.Card{}
	row := s.db.conn.QueryRow(`SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	if err := scanCard(row, c); err != nil {
		return nil, fmt.Errorf("get card: %w", notFound(err))
	}
	return c, nil
}

func (s *SceneStore) ListCards(sceneID string) ([]domain.Card, error) {
	rows, err := s.db.conn.Query(
		`SELECT `+cardColumns+` FROM cards WHERE scene_id = ? ORDER BY sort_order ASC, created_at ASC`,
		sceneID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		var c domain.Card
		if err := scanCard(rows, &c); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// NextCardOrder returns the sort position after the last card of a scene.
func (s *SceneStore) NextCardOrder(sceneID string) (int, error) {
	var next int
	err := s.db.conn.QueryRow(
		`SELECT COALESCE(MAX(sort_order) + 1, 0) FROM cards WHERE scene_id = ?`, sceneID,
	).Scan(&next)
	return next, err
}

func (s *SceneStore) UpdateCard(c *domain.Card) error {
	c.UpdatedAt = time.Now()
	_, err := s.db.conn.Exec(
		`UPDATE cards SET title = ?, content = ?, sort_order = ?, drawing_data = ?, updated_at = ? WHERE id = ?`,
		c.Title, c.Content, c.Order, c.DrawingData, c.UpdatedAt, c.ID,
	)
	return err
}

// UpdateDrawingData replaces a card's drawing layer without touching the
// rest of the row.
func (s *SceneStore) UpdateDrawingData(cardID, data string) error {
	res, err := s.db.conn.Exec(
		`UPDATE cards SET drawing_data = ?, updated_at = ? WHERE id = ?`,
		data, time.Now(), cardID,
	)
	if err != nil {
		return fmt.Errorf("update drawing data: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update drawing data %s: %w", cardID, ErrNotFound)
	}
	return nil
}

// CardFingerprint returns a value that changes whenever the card row is
// written. Used to notice writes from another process.
func (s *SceneStore) CardFingerprint(cardID string) (string, error) {
	var updated time.Time
	var size int
	err := s.db.conn.QueryRow(
		`SELECT updated_at, length(drawing_data) FROM cards WHERE id = ?`, cardID,
	).Scan(&updated, &size)
	if err != nil {
		return "", fmt.Errorf("card fingerprint: %w", notFound(err))
	}
	return fmt.Sprintf("%d:%d", updated.UnixNano(), size), nil
}

func (s *SceneStore) DeleteCard(id string) error {
	_, err := s.db.conn.Exec(`DELETE FROM cards WHERE id = ?`, id)
	return err
}

func (s *SceneStore) DeleteCardsByScene(sceneID string) error {
	_, err := s.db.conn.Exec(`DELETE FROM cards WHERE scene_id = ?`, sceneID)
	return err
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
