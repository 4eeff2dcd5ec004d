package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const userColumns = "id, firstName, lastName, authAccount, password, fieldOfInterest, schoolLevel, signupDate"

// CreateUser inserts a new account and returns its id.
// A second account with the same AuthAccount fails with ErrDuplicateAccount.
func (s *Store) CreateUser(ctx context.Context, u NewUser) (int64, error) {
	db, err := s.handle()
	if err != nil {
		return 0, err
	}
	if err := validateInput(u); err != nil {
		return 0, err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO users (firstName, lastName, authAccount, password, fieldOfInterest, schoolLevel, signupDate)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.FirstName, u.LastName, u.AuthAccount, u.Password,
		nullString(u.FieldOfInterest), nullString(u.SchoolLevel), u.SignupDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateAccount
		}
		return 0, storageError("creating user", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, storageError("reading user id", err)
	}

	s.logger.Info("user created", "id", id)
	return id, nil
}

// FindUserByCredentials returns the user whose account and password both
// match exactly, or nil when none does.
func (s *Store) FindUserByCredentials(ctx context.Context, account, password string) (*User, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	row := db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE authAccount = ? AND password = ?",
		account, password,
	)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no match is not an error
	}
	if err != nil {
		return nil, storageError("finding user", err)
	}
	return u, nil
}

// ListUsers returns every account ordered by id.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id ASC")
	if err != nil {
		return nil, storageError("listing users", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, storageError("listing users", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterating users", err)
	}
	return users, nil
}

// CountUsers returns the number of accounts.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	db, err := s.handle()
	if err != nil {
		return 0, err
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, storageError("counting users", err)
	}
	return count, nil
}

// scanner is an interface for sql.Row and sql.Rows Scan methods.
type scanner interface {
	Scan(dest ...any) error
}

// scanUser scans a user from any scanner (Row or Rows).
// sql.ErrNoRows is returned unwrapped.
func scanUser(s scanner) (*User, error) {
	var u User
	var fieldOfInterest, schoolLevel sql.NullString

	err := s.Scan(&u.ID, &u.FirstName, &u.LastName, &u.AuthAccount, &u.Password,
		&fieldOfInterest, &schoolLevel, &u.SignupDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	u.FieldOfInterest = stringPtr(fieldOfInterest)
	u.SchoolLevel = stringPtr(schoolLevel)
	return &u, nil
}

// Helper functions.

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
