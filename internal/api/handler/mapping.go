package handler

import (
	"time"

	"github.com/wanderlist/wanderlist/internal/api/models"
	"github.com/wanderlist/wanderlist/internal/item"
	"github.com/wanderlist/wanderlist/internal/notification"
)

func timestampPtr(ts *models.Timestamp) *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.Time()
	return &t
}

func toItemModel(it *item.Item) models.Item {
	m := models.Item{
		ID:              it.ID,
		Title:           it.Title,
		Description:     it.Description,
		LocationName:    it.LocationName,
		Coordinates:     it.Coordinates,
		Images:          it.Images,
		Completed:       it.Completed,
		Category:        it.Category,
		Interests:       it.Interests,
		Owner:           it.Owner,
		BestTimeToVisit: it.BestTimeToVisit,
		Itinerary:       toStopModels(it.Itinerary),
		CreatedAt:       models.Timestamp(it.CreatedAt),
		UpdatedAt:       models.Timestamp(it.UpdatedAt),
	}
	if it.CompletedAt != nil {
		ts := models.Timestamp(*it.CompletedAt)
		m.CompletedAt = &ts
	}
	if it.RoadTrip != nil {
		m.RoadTrip = &models.RoadTrip{
			StartLocation:    it.RoadTrip.StartLocation,
			StartCoordinates: it.RoadTrip.StartCoordinates,
			Stops:            toStopModels(it.RoadTrip.Stops),
		}
	}
	return m
}

func toItemModels(items []*item.Item) []models.Item {
	out := make([]models.Item, 0, len(items))
	for _, it := range items {
		out = append(out, toItemModel(it))
	}
	return out
}

func toStopModels(stops []item.Stop) []models.Stop {
	if stops == nil {
		return nil
	}
	out := make([]models.Stop, 0, len(stops))
	for _, s := range stops {
		out = append(out, models.Stop{
			Name:        s.Name,
			Description: s.Description,
			Completed:   s.Completed,
			Coordinates: s.Coordinates,
			IsImportant: s.IsImportant,
			Images:      s.Images,
		})
	}
	return out
}

func toNotificationModel(n *notification.Notification) models.Notification {
	return models.Notification{
		ID:            n.ID,
		Title:         n.Title,
		Message:       n.Message,
		Timestamp:     models.Timestamp(n.Timestamp),
		Read:          n.Read,
		Type:          string(n.Type),
		RelatedItemID: n.RelatedItemID,
	}
}
