// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Date is a calendar date. The backend sends either "2006-01-02" or
// [2006, 1, 2] depending on its serializer settings.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// UnmarshalJSON accepts both date encodings and null.
func (d *Date) UnmarshalJSON(b []byte) error {
	t, err := parseJavaTime(b, dateLayout)
	if err != nil {
		return fmt.Errorf("parsing date %s: %w", b, err)
	}
	d.Time = t
	return nil
}

// MarshalJSON writes the ISO date form.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

// DateTime is a local timestamp without zone.
type DateTime struct {
	time.Time
}

const dateTimeLayout = "2006-01-02T15:04:05"

// UnmarshalJSON accepts both timestamp encodings and null.
func (d *DateTime) UnmarshalJSON(b []byte) error {
	t, err := parseJavaTime(b, dateTimeLayout)
	if err != nil {
		return fmt.Errorf("parsing timestamp %s: %w", b, err)
	}
	d.Time = t
	return nil
}

func parseJavaTime(b []byte, layout string) (time.Time, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return time.Time{}, nil
	}

	if b[0] == '[' {
		var parts []int
		if err := json.Unmarshal(b, &parts); err != nil {
			return time.Time{}, err
		}
		if len(parts) < 3 {
			return time.Time{}, fmt.Errorf("want at least 3 components, got %d", len(parts))
		}
		for len(parts) < 7 {
			parts = append(parts, 0)
		}
		return time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], parts[6], time.UTC), nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return time.Time{}, err
	}
	if s == "" {
		return time.Time{}, nil
	}
	if len(s) > len(layout) && layout == dateTimeLayout {
		// Fractional seconds.
		if t, err := time.Parse("2006-01-02T15:04:05.999999999", s); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(layout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Page is a paged list.
type Page[T any] struct {
	Content    []T `json:"content" validate:"dive"`
	TotalPages int `json:"totalPages" validate:"gte=0"`
	Number     int `json:"number"`
}

// ProfileUser is the account nested in a profile.
type ProfileUser struct {
	ID      int64  `json:"id" validate:"required,gt=0"`
	Email   string `json:"email" validate:"required"`
	Role    string `json:"role" validate:"required"`
	Enabled bool   `json:"enabled"`
}

// Profile is the visitor or organizer profile of the current user.
type Profile struct {
	ID   int64        `json:"id"`
	User *ProfileUser `json:"user" validate:"required"`

	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Surname string `json:"surname"`
	City    string `json:"city"`

	YearsActive  int    `json:"annee_activite"`
	InstagramURL string `json:"instagram_url"`
	FacebookURL  string `json:"facebook_url"`
	WhatsappURL  string `json:"whatsapp_url"`
	PictureURL   string `json:"profil_url"`
}

// ProfileUpdate carries the editable profile fields. The backend picks the
// profile kind from the caller's role.
type ProfileUpdate struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Surname string `json:"surname,omitempty"`
	City    string `json:"city,omitempty"`

	YearsActive  int    `json:"annee_activite,omitempty"`
	InstagramURL string `json:"instagram_url,omitempty"`
	FacebookURL  string `json:"facebook_url,omitempty"`
	WhatsappURL  string `json:"whatsapp_url,omitempty"`
	PictureURL   string `json:"profil_url,omitempty"`
}

// Registration is the sign-up form for both account kinds.
type Registration struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role,omitempty"`

	Surname string `json:"surname,omitempty"`
	City    string `json:"city,omitempty"`

	YearsActive  int    `json:"annee_activite,omitempty"`
	InstagramURL string `json:"instagram_url,omitempty" validate:"omitempty,url"`
	FacebookURL  string `json:"facebook_url,omitempty" validate:"omitempty,url"`
	WhatsappURL  string `json:"whatsapp_url,omitempty" validate:"omitempty,url"`
	PictureURL   string `json:"profil_url,omitempty" validate:"omitempty,url"`
}

// EventStatus is the lifecycle status of an event.
type EventStatus string

const (
	EventPending   EventStatus = "EN_ATTENTE"
	EventActive    EventStatus = "ACTIF"
	EventCancelled EventStatus = "ANNULE"
	EventFinished  EventStatus = "TERMINE"
	EventUpcoming  EventStatus = "PROCHAINEMENT"
	EventOngoing   EventStatus = "EN_COURS"
)

// EventStatuses lists every status in display order.
var EventStatuses = []EventStatus{EventPending, EventActive, EventCancelled, EventFinished, EventUpcoming, EventOngoing}

// Label returns the English name of the status.
func (s EventStatus) Label() string {
	switch s {
	case EventPending:
		return "Pending"
	case EventActive:
		return "Active"
	case EventCancelled:
		return "Cancelled"
	case EventFinished:
		return "Finished"
	case EventUpcoming:
		return "Upcoming"
	case EventOngoing:
		return "Ongoing"
	default:
		return string(s)
	}
}

// TicketCategory is a priced ticket type of an event.
type TicketCategory struct {
	ID        int64  `json:"id" validate:"required,gt=0"`
	Name      string `json:"intitule"`
	Price     int    `json:"prix" validate:"gte=0"`
	EventName string `json:"event_name"`
}

// Free reports whether the category costs nothing.
func (t TicketCategory) Free() bool { return t.Price == 0 }

// TicketCategoryInput creates or updates a ticket category.
type TicketCategoryInput struct {
	Name    string `json:"intitule" validate:"required"`
	Price   int    `json:"prix" validate:"gte=0"`
	EventID int64  `json:"id_event" validate:"required,gt=0"`
}

// Event is a public event listing.
type Event struct {
	ID            int64            `json:"id" validate:"required,gt=0"`
	Title         string           `json:"title" validate:"required"`
	Description   string           `json:"description"`
	Places        int              `json:"places" validate:"gte=0"`
	Location      string           `json:"lieu"`
	Start         Date             `json:"debut"`
	End           Date             `json:"fin"`
	OrganizerName string           `json:"organizer_name"`
	Status        EventStatus      `json:"statutEvent"`
	PictureURL    string           `json:"profil_url"`
	Categories    []TicketCategory `json:"ticketCategoryList" validate:"dive"`
	Images        []Image          `json:"images"`
}

// EventInput creates or updates an event.
type EventInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Places      int    `json:"places" validate:"gt=0"`
	Location    string `json:"lieu" validate:"required"`
	Start       Date   `json:"debut"`
	End         Date   `json:"fin"`
	OrganizerID int64  `json:"id_organizer,omitempty"`
	PictureURL  string `json:"profil_url,omitempty" validate:"omitempty,url"`
}

// AdminEvent is an event as listed in moderation.
type AdminEvent struct {
	ID        int64       `json:"id" validate:"required,gt=0"`
	Title     string      `json:"title"`
	Status    EventStatus `json:"statut"`
	Featured  bool        `json:"featured"`
	Organizer *struct {
		Name string `json:"name"`
	} `json:"organizerProfile"`
}

// OrganizerName returns the organizer's name or "N/A".
func (e AdminEvent) OrganizerName() string {
	if e.Organizer == nil || e.Organizer.Name == "" {
		return "N/A"
	}
	return e.Organizer.Name
}

// SubscriptionStatus is the payment/usage status of a subscription.
type SubscriptionStatus string

const (
	SubscriptionPending   SubscriptionStatus = "EN_ATTENTE"
	SubscriptionSucceeded SubscriptionStatus = "REUSSI"
	SubscriptionUsed      SubscriptionStatus = "UTILISE"
)

// Subscriber is the visitor attached to a subscription.
type Subscriber struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

// FullName joins name and surname.
func (s Subscriber) FullName() string {
	switch {
	case s.Name == "":
		return s.Surname
	case s.Surname == "":
		return s.Name
	default:
		return s.Name + " " + s.Surname
	}
}

// Subscription is a ticket purchase.
type Subscription struct {
	ID              int64              `json:"id" validate:"required,gt=0"`
	Amount          int                `json:"montant" validate:"gte=0"`
	Places          int                `json:"places"`
	CreatedAt       DateTime           `json:"createdAt"`
	Visitor         *Subscriber        `json:"visitor"`
	EventID         int64              `json:"event_id"`
	EventName       string             `json:"event_name"`
	EventStart      Date               `json:"event_debut"`
	EventLocation   string             `json:"event_lieu"`
	OrganizerName   string             `json:"organizer_name"`
	TicketName      string             `json:"nom_ticket"`
	EventPictureURL string             `json:"event_profil_url"`
	TicketCode      string             `json:"codeticket"`
	Status          SubscriptionStatus `json:"statut"`
}

// SubscriptionInput requests tickets of one category.
type SubscriptionInput struct {
	EventID  int64 `json:"id_event" validate:"required,gt=0"`
	TicketID int64 `json:"id_ticket" validate:"required,gt=0"`
	Places   int   `json:"places" validate:"required,gt=0,lte=20"`
}

// SubscribeOutcome tells how a subscription was accepted.
type SubscribeOutcome int

const (
	// SubscriptionConfirmed is a free subscription, done on the spot.
	SubscriptionConfirmed SubscribeOutcome = iota
	// PaymentRequired is a paid subscription awaiting payment.
	PaymentRequired
)

// SubscribeResult is the result of Subscribe.
type SubscribeResult struct {
	Outcome      SubscribeOutcome
	Subscription Subscription
}

// TicketVerdict is the result of validating a ticket code.
type TicketVerdict int

const (
	TicketValid TicketVerdict = iota
	TicketInvalid
	TicketAlreadyUsed
)

func (v TicketVerdict) String() string {
	switch v {
	case TicketValid:
		return "valid"
	case TicketInvalid:
		return "invalid"
	case TicketAlreadyUsed:
		return "used"
	default:
		return "unknown"
	}
}

// TicketCheck is the result of ValidateTicket.
type TicketCheck struct {
	Verdict      TicketVerdict
	Message      string
	Subscription *Subscription
}

// Member is a team member of an organizer.
type Member struct {
	ID            int64  `json:"id" validate:"required,gt=0"`
	Name          string `json:"name"`
	Surname       string `json:"surname"`
	Email         string `json:"email"`
	InstagramURL  string `json:"instagram_url"`
	FacebookURL   string `json:"facebook_url"`
	OrganizerName string `json:"organizer_name"`
	PictureURL    string `json:"profil_url"`
	Role          string `json:"role"`
}

// MemberInput creates a member.
type MemberInput struct {
	Name         string `json:"name" validate:"required"`
	Surname      string `json:"surname"`
	Email        string `json:"email" validate:"required,email"`
	InstagramURL string `json:"instagram_url,omitempty" validate:"omitempty,url"`
	FacebookURL  string `json:"facebook_url,omitempty" validate:"omitempty,url"`
	PictureURL   string `json:"profil_url,omitempty" validate:"omitempty,url"`
	Role         string `json:"role,omitempty"`
}

// Image is an event gallery image.
type Image struct {
	ID      int64  `json:"id"`
	URL     string `json:"imageurl"`
	EventID int64  `json:"id_event"`
}

// CommentAuthor is the account that wrote a comment.
type CommentAuthor struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// CommentStatus is the moderation status of a comment.
type CommentStatus string

const (
	CommentVisible CommentStatus = "VISIBLE"
	CommentHidden  CommentStatus = "HIDDEN"
)

// Comment is an event comment with its replies.
type Comment struct {
	ID        int64          `json:"id" validate:"required,gt=0"`
	Content   string         `json:"content"`
	User      *CommentAuthor `json:"user"`
	EventID   int64          `json:"eventId"`
	ParentID  *int64         `json:"parentCommentId"`
	Replies   []Comment      `json:"replies" validate:"dive"`
	Status    CommentStatus  `json:"status"`
	CreatedAt DateTime       `json:"createdAt"`
	UpdatedAt DateTime       `json:"updatedAt"`
}

// Author returns the author's email, or "Unknown".
func (c Comment) Author() string {
	if c.User == nil || c.User.Email == "" {
		return "Unknown"
	}
	return c.User.Email
}

// CommentInput creates or edits a comment.
type CommentInput struct {
	Content  string `json:"content" validate:"required,max=2000"`
	ParentID *int64 `json:"parentCommentId,omitempty"`
}

// likeCount covers both field names the backend has used.
type likeCount struct {
	Count     int64 `json:"count"`
	LikeCount int64 `json:"likeCount"`
}

// User is an account as listed by the admin area.
type User struct {
	ID      int64  `json:"id" validate:"required,gt=0"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Enabled bool   `json:"enabled"`
}

// CategoryCount is the number of places sold in one ticket category.
type CategoryCount struct {
	Category string `json:"categoryIntitule"`
	Places   int64  `json:"totalPlaces"`
}

// EventStats summarizes sales of one event.
type EventStats struct {
	EventID       int64           `json:"eventId"`
	EventTitle    string          `json:"eventTitle"`
	Subscriptions int64           `json:"totalSuccessfulSubscriptions"`
	Revenue       int64           `json:"totalRevenue"`
	MaxCapacity   int             `json:"maxCapacity"`
	Occupancy     float64         `json:"occupancyRate"`
	Distribution  []CategoryCount `json:"categoryDistribution"`
}

// TrendingEvent is an event ranked by occupancy.
type TrendingEvent struct {
	ID        int64   `json:"id" validate:"required,gt=0"`
	Title     string  `json:"title"`
	Location  string  `json:"lieu"`
	Places    int     `json:"places"`
	Occupancy float64 `json:"occupancyRate"`
}

// Recommendation is a free-form recommendation payload. Its shape differs
// between recommendation kinds, so it is kept as decoded JSON.
type Recommendation map[string]any

// DashboardStats are the platform totals shown to admins.
type DashboardStats struct {
	Users         int64 `json:"totalUsers"`
	Events        int64 `json:"totalEvents"`
	Subscriptions int64 `json:"totalSubscriptions"`
	Revenue       int64 `json:"totalRevenue"`
}
