package backendstore

import (
	"context"
	"fmt"

	"fueldesk/dashboard-service/internal/models"
	"fueldesk/dashboard-service/internal/store"
)

const testPassword = "FuelDesk#2024"

var testAccounts = []struct {
	role     string
	name     string
	email    string
	withSite bool
}{
	{"super_admin", "Test Super Admin", "superadmin@fueldesk.test", false},
	{"admin", "Test Station Admin", "admin@fueldesk.test", true},
	{"employee", "Test Employee", "employee@fueldesk.test", true},
	{"credit_customer", "Test Credit Customer", "customer@fueldesk.test", true},
}

// ProvisionTestUsers creates one account per role. Accounts that already
// exist are skipped. It is not transactional: accounts created before a
// failure are kept and reported.
func (s *Store) ProvisionTestUsers(ctx context.Context, stationID string) (store.ProvisionResult, error) {
	result := store.ProvisionResult{Users: []store.TestUser{}}
	if stationID != "" {
		if _, err := s.GetStation(ctx, stationID); err != nil {
			result.Message = "test station not found"
			return result, err
		}
	}

	skipped := 0
	for _, account := range testAccounts {
		profile := models.Profile{
			FullName: account.name,
			Role:     account.role,
			Email:    account.email,
			Status:   models.ProfileActive,
		}
		if account.withSite && stationID != "" {
			station := stationID
			profile.StationID = &station
		}
		created, err := s.CreateProfile(ctx, store.NewProfile{Profile: profile, Password: testPassword})
		if isEmailTaken(err) {
			skipped++
			continue
		}
		if err != nil {
			result.Message = fmt.Sprintf("creating %s failed after %d accounts", account.email, len(result.Users))
			return result, err
		}
		result.Users = append(result.Users, store.TestUser{
			Email:     account.email,
			Password:  testPassword,
			Role:      account.role,
			ProfileID: created.ID,
		})
	}

	result.Success = true
	result.Message = fmt.Sprintf("created %d test accounts, %d already existed", len(result.Users), skipped)
	return result, nil
}
