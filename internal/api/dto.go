package api

import (
	"time"

	"github.com/sandeepkv93/plannerd/internal/aggregate"
	"github.com/sandeepkv93/plannerd/internal/materialize"
	"github.com/sandeepkv93/plannerd/internal/model"
)

type itemDTO struct {
	Key        string     `json:"key"`
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Source     string     `json:"source"`
	Category   string     `json:"category"`
	Overdue    bool       `json:"overdue"`
	Urgent     bool       `json:"urgent"`
	PlannedEnd *time.Time `json:"planned_end,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type eventDTO struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Color       string    `json:"color,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	SourceType  string    `json:"source_type,omitempty"`
	SourceID    string    `json:"source_id,omitempty"`
}

type saveResponse struct {
	Event     eventDTO `json:"event"`
	Created   bool     `json:"created"`
	OfferLink bool     `json:"offer_link"`
}

type linkResponse struct {
	TaskID string   `json:"task_id"`
	Source string   `json:"source"`
	Event  eventDTO `json:"event"`
}

func itemFromModel(it aggregate.Item) itemDTO {
	return itemDTO{
		Key:        it.Key(),
		ID:         it.ID,
		Title:      it.Title,
		Source:     string(it.Source),
		Category:   it.Category,
		Overdue:    it.Overdue,
		Urgent:     it.Urgent,
		PlannedEnd: it.PlannedEnd,
		CreatedAt:  it.CreatedAt,
	}
}

func eventFromModel(ev model.CalendarEvent) eventDTO {
	return eventDTO{
		ID:          ev.ID,
		Title:       ev.Title,
		Description: ev.Description,
		Category:    ev.Category,
		Color:       ev.Color(),
		Start:       ev.StartTime,
		End:         ev.EndTime,
		SourceType:  string(ev.SourceType),
		SourceID:    ev.SourceID,
	}
}

func eventsFromModel(items []model.CalendarEvent) []eventDTO {
	out := make([]eventDTO, 0, len(items))
	for _, ev := range items {
		out = append(out, eventFromModel(ev))
	}
	return out
}

func (e eventDTO) draft() materialize.EventDraft {
	return materialize.EventDraft{
		Title:       e.Title,
		Description: e.Description,
		Category:    e.Category,
		Start:       e.Start,
		End:         e.End,
		SourceType:  model.SourceType(e.SourceType),
		SourceID:    e.SourceID,
	}
}
