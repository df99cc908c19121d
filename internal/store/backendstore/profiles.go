package backendstore

import (
	"context"
	"errors"
	"strings"

	"fueldesk/dashboard-service/internal/auth"
	"fueldesk/dashboard-service/internal/backend"
	"fueldesk/dashboard-service/internal/models"
	"fueldesk/dashboard-service/internal/store"
)

func (s *Store) ListProfiles(ctx context.Context, filter store.ProfileFilter) ([]models.Profile, error) {
	q := backend.From(tableProfiles).OrderBy("full_name", false)
	if filter.Role != "" {
		q = q.Where(backend.Eq("role", filter.Role))
	}
	if filter.StationID != "" {
		q = q.Where(backend.Eq("station_id", filter.StationID))
	}
	return backend.List[models.Profile](ctx, s.client, q)
}

func (s *Store) GetProfile(ctx context.Context, profileID string) (models.Profile, error) {
	q := backend.From(tableProfiles).Where(backend.Eq("id", profileID))
	profile, err := backend.One[models.Profile](ctx, s.client, q)
	return profile, notFound(err, "profile")
}

func (s *Store) GetProfileByUser(ctx context.Context, userID string) (models.Profile, error) {
	q := backend.From(tableProfiles).Where(backend.Eq("user_id", userID))
	profile, err := backend.One[models.Profile](ctx, s.client, q)
	return profile, notFound(err, "profile")
}

func (s *Store) GetAuthUserByEmail(ctx context.Context, email string) (models.AuthUser, error) {
	q := backend.From(tableAuthUsers).Where(backend.Eq("email", normalizeEmail(email)))
	user, err := backend.One[models.AuthUser](ctx, s.client, q)
	return user, notFound(err, "auth user")
}

// CreateProfile registers the auth user and its profile in one transaction.
func (s *Store) CreateProfile(ctx context.Context, input store.NewProfile) (models.Profile, error) {
	profile := input.Profile
	profile.Email = normalizeEmail(profile.Email)
	if profile.Status == "" {
		profile.Status = models.ProfileActive
	}
	if !models.ValidProfileStatus(profile.Status) {
		return models.Profile{}, store.ErrInvalidStatus
	}
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return models.Profile{}, err
	}

	var created models.Profile
	err = s.client.InTx(ctx, func(tx backend.Client) error {
		taken, err := tx.Count(ctx, tableAuthUsers, backend.Eq("email", profile.Email))
		if err != nil {
			return err
		}
		if taken > 0 {
			return store.ErrEmailTaken
		}
		now := s.timestamp()
		user, err := backend.InsertAs[models.AuthUser](ctx, tx, tableAuthUsers, backend.Row{
			"email":         profile.Email,
			"password_hash": hash,
			"created_at":    now,
		})
		if err != nil {
			return err
		}
		values := profileRow(profile)
		values["user_id"] = user.ID
		values["created_at"] = now
		values["updated_at"] = now
		created, err = backend.InsertAs[models.Profile](ctx, tx, tableProfiles, values)
		return err
	})
	if err != nil {
		return models.Profile{}, err
	}
	return created, nil
}

// UpdateProfile rewrites the profile and keeps the login email of its auth
// user in step with it.
func (s *Store) UpdateProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	if !models.ValidProfileStatus(profile.Status) {
		return models.Profile{}, store.ErrInvalidStatus
	}
	profile.Email = normalizeEmail(profile.Email)

	var updated models.Profile
	err := s.client.InTx(ctx, func(tx backend.Client) error {
		q := backend.From(tableProfiles).Where(backend.Eq("id", profile.ID))
		current, err := backend.One[models.Profile](ctx, tx, q)
		if err != nil {
			return notFound(err, "profile")
		}
		if profile.Email != current.Email {
			if err := s.changeLoginEmail(ctx, tx, current.UserID, profile.Email); err != nil {
				return err
			}
		}
		values := profileRow(profile)
		values["updated_at"] = s.timestamp()
		updated, err = backend.UpdateAs[models.Profile](ctx, tx, tableProfiles, values, backend.Eq("id", profile.ID))
		return notFound(err, "profile")
	})
	if err != nil {
		return models.Profile{}, err
	}
	return updated, nil
}

func (s *Store) changeLoginEmail(ctx context.Context, tx backend.Client, userID, email string) error {
	filters := []backend.Filter{backend.Eq("email", email)}
	if userID != "" {
		filters = append(filters, backend.Neq("id", userID))
	}
	taken, err := tx.Count(ctx, tableAuthUsers, filters...)
	if err != nil {
		return err
	}
	if taken > 0 {
		return store.ErrEmailTaken
	}
	if userID == "" {
		return nil
	}
	_, err = tx.Update(ctx, tableAuthUsers, backend.Row{"email": email}, backend.Eq("id", userID))
	return err
}

func profileRow(profile models.Profile) backend.Row {
	return backend.Row{
		"full_name":  profile.FullName,
		"role":       profile.Role,
		"station_id": profile.StationID,
		"email":      profile.Email,
		"phone":      profile.Phone,
		"salary":     profile.Salary,
		"status":     profile.Status,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isEmailTaken(err error) bool {
	return errors.Is(err, store.ErrEmailTaken)
}
