package backendstore

import (
	"context"

	"fueldesk/dashboard-service/internal/backend"
	"fueldesk/dashboard-service/internal/models"
	"fueldesk/dashboard-service/internal/store"
)

func (s *Store) InsertActivity(ctx context.Context, entry models.ActivityLog) error {
	_, err := s.client.Insert(ctx, tableActivityLogs, backend.Row{
		"station_id":  entry.StationID,
		"profile_id":  entry.ProfileID,
		"action":      entry.Action,
		"target_type": entry.TargetType,
		"target_id":   entry.TargetID,
		"details":     entry.Details,
		"ip":          entry.IP,
		"user_agent":  entry.UserAgent,
		"created_at":  s.timestamp(),
	})
	return err
}

// ListActivity returns the newest entries first, capped at 200.
func (s *Store) ListActivity(ctx context.Context, filter store.ActivityFilter) ([]models.ActivityLog, error) {
	q := backend.From(tableActivityLogs).OrderBy("created_at", true).Take(activityListLimit)
	if filter.StationID != "" {
		q = q.Where(backend.Eq("station_id", filter.StationID))
	}
	if filter.Action != "" {
		q = q.Where(backend.Eq("action", filter.Action))
	}
	if filter.ProfileID != "" {
		q = q.Where(backend.Eq("profile_id", filter.ProfileID))
	}
	return backend.List[models.ActivityLog](ctx, s.client, q)
}
