package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_meta (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS preferences (
	screen      TEXT PRIMARY KEY,
	payload     TEXT NOT NULL,
	updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// Preferences almacén local de preferencias de UI (filtros, orden) por
// pantalla. El contenido es un blob JSON opaco para este núcleo.
type Preferences struct {
	db *sql.DB
}

// OpenPreferences abre (o crea) la base local de preferencias en dataDir.
func OpenPreferences(dataDir string) (*Preferences, error) {
	path := filepath.Join(dataDir, "consola.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("preferencias: abrir %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("preferencias: crear esquema: %w", err)
	}
	if err := ensureVersion(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Preferences{db: db}, nil
}

func ensureVersion(db *sql.DB) error {
	var v int
	err := db.QueryRow(`SELECT version FROM schema_meta LIMIT 1`).Scan(&v)
	switch {
	case err == sql.ErrNoRows:
		_, err = db.Exec(`INSERT INTO schema_meta (version) VALUES (?)`, schemaVersion)
		return err
	case err != nil:
		return fmt.Errorf("preferencias: leer versión de esquema: %w", err)
	case v != schemaVersion:
		return fmt.Errorf("preferencias: versión de esquema %d no soportada (se esperaba %d)", v, schemaVersion)
	}
	return nil
}

// Save serializa v como JSON y lo guarda bajo la clave de pantalla.
func (p *Preferences) Save(screen string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("preferencias: serializar %s: %w", screen, err)
	}
	_, err = p.db.Exec(`
		INSERT INTO preferences (screen, payload, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(screen) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		screen, string(payload))
	return err
}

// Load deserializa las preferencias de la pantalla en out. Devuelve false si
// no hay nada guardado.
func (p *Preferences) Load(screen string, out any) (bool, error) {
	var payload string
	err := p.db.QueryRow(`SELECT payload FROM preferences WHERE screen = ?`, screen).Scan(&payload)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return false, fmt.Errorf("preferencias: deserializar %s: %w", screen, err)
	}
	return true, nil
}

// Delete borra las preferencias de una pantalla.
func (p *Preferences) Delete(screen string) error {
	_, err := p.db.Exec(`DELETE FROM preferences WHERE screen = ?`, screen)
	return err
}

// Close cierra la base.
func (p *Preferences) Close() error { return p.db.Close() }
