package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// GetString returns the value stored under key and whether it exists.
func (s *Store) GetString(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM preferences WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read %s: %w", key, err)
	}
	return value, true, nil
}

// PutString stores value under key, replacing any previous value.
func (s *Store) PutString(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO preferences (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM preferences WHERE key = ?", key); err != nil {
		return fmt.Errorf("storage: cannot delete %s: %w", key, err)
	}
	return nil
}

// GetInt returns the integer under key, or def when the key is absent.
// A stored value that does not parse returns def and an error.
func (s *Store) GetInt(key string, def int64) (int64, error) {
	raw, ok, err := s.GetString(key)
	if err != nil || !ok {
		return def, err
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def, fmt.Errorf("storage: %s is not an integer: %w", key, err)
	}
	return v, nil
}

// PutInt stores an integer under key.
func (s *Store) PutInt(key string, v int64) error {
	return s.PutString(key, strconv.FormatInt(v, 10))
}

// GetBool returns the boolean under key, or def when the key is absent.
func (s *Store) GetBool(key string, def bool) (bool, error) {
	raw, ok, err := s.GetString(key)
	if err != nil || !ok {
		return def, err
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, fmt.Errorf("storage: %s is not a boolean: %w", key, err)
	}
	return v, nil
}

// PutBool stores a boolean under key.
func (s *Store) PutBool(key string, v bool) error {
	return s.PutString(key, strconv.FormatBool(v))
}

// GetFloat returns the float under key, or def when the key is absent.
func (s *Store) GetFloat(key string, def float64) (float64, error) {
	raw, ok, err := s.GetString(key)
	if err != nil || !ok {
		return def, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def, fmt.Errorf("storage: %s is not a number: %w", key, err)
	}
	return v, nil
}

// PutFloat stores a float under key.
func (s *Store) PutFloat(key string, v float64) error {
	return s.PutString(key, strconv.FormatFloat(v, 'g', -1, 64))
}
