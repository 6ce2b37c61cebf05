package notify

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/richardprab/auroramart/internal/cache"
	"github.com/richardprab/auroramart/internal/common"
	dbgen "github.com/richardprab/auroramart/internal/db/gen"
)

const unreadTTL = 5 * time.Minute

var (
	ErrNotFound    = errors.New("notification not found")
	ErrInvalidKind = errors.New("invalid notification kind")
)

// Querier captures the notification inbox queries.
type Querier interface {
	InsertNotification(ctx context.Context, arg dbgen.InsertNotificationParams) (dbgen.Notification, error)
	ListNotifications(ctx context.Context, arg dbgen.ListNotificationsParams) ([]dbgen.Notification, error)
	MarkNotificationRead(ctx context.Context, arg dbgen.MarkNotificationReadParams) (int64, error)
	MarkAllNotificationsRead(ctx context.Context, customerID pgtype.UUID) (int64, error)
	CountUnreadNotifications(ctx context.Context, customerID pgtype.UUID) (int64, error)
}

// Input describes a notification to create.
type Input struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Kind       string    `json:"kind"`
	Message    string    `json:"message"`
	Link       string    `json:"link,omitempty"`
}

// Notification is the API view of an inbox entry.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Link      *string   `json:"link,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Service manages the customer inbox. Unread counts are cached in Redis and
// dropped on every write that could change them.
type Service struct {
	Q     Querier
	Redis *redis.Client
	Log   zerolog.Logger
}

// Create stores a notification.
func (s *Service) Create(ctx context.Context, in Input) (Notification, error) {
	kind, err := parseKind(in.Kind)
	if err != nil {
		return Notification{}, err
	}
	msg := strings.TrimSpace(in.Message)
	if msg == "" || in.CustomerID == uuid.Nil {
		return Notification{}, common.BadRequest("customer and message are required", nil)
	}
	row, err := s.Q.InsertNotification(ctx, dbgen.InsertNotificationParams{
		CustomerID: common.PgUUID(in.CustomerID),
		Kind:       kind,
		Message:    msg,
		Link:       common.Text(in.Link),
	})
	if err != nil {
		return Notification{}, err
	}
	s.invalidate(ctx, in.CustomerID)
	return convert(row), nil
}

// List returns a page of the customer's notifications, newest first.
func (s *Service) List(ctx context.Context, customerID uuid.UUID, unreadOnly bool, page, perPage int) ([]Notification, error) {
	rows, err := s.Q.ListNotifications(ctx, dbgen.ListNotificationsParams{
		CustomerID:  common.PgUUID(customerID),
		UnreadOnly:  unreadOnly,
		LimitCount:  int32(perPage),
		OffsetCount: int32(common.Offset(page, perPage)),
	})
	if err != nil {
		return nil, err
	}
	out := make([]Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, convert(row))
	}
	return out, nil
}

// MarkRead marks one notification as read.
func (s *Service) MarkRead(ctx context.Context, customerID, id uuid.UUID) error {
	n, err := s.Q.MarkNotificationRead(ctx, dbgen.MarkNotificationReadParams{
		ID:         common.PgUUID(id),
		CustomerID: common.PgUUID(customerID),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	s.invalidate(ctx, customerID)
	return nil
}

// MarkAllRead marks every notification as read and returns how many changed.
func (s *Service) MarkAllRead(ctx context.Context, customerID uuid.UUID) (int64, error) {
	n, err := s.Q.MarkAllNotificationsRead(ctx, common.PgUUID(customerID))
	if err != nil {
		return 0, err
	}
	s.invalidate(ctx, customerID)
	return n, nil
}

// UnreadCount returns the unread count, served from Redis when cached.
func (s *Service) UnreadCount(ctx context.Context, customerID uuid.UUID) (int64, error) {
	key := cache.KeyUnreadCount(customerID.String())
	if s.Redis != nil {
		v, err := s.Redis.Get(ctx, key).Result()
		switch {
		case err == nil:
			if n, perr := strconv.ParseInt(v, 10, 64); perr == nil {
				return n, nil
			}
		case !errors.Is(err, redis.Nil):
			s.Log.Warn().Err(err).Msg("unread count cache read failed")
		}
	}
	n, err := s.Q.CountUnreadNotifications(ctx, common.PgUUID(customerID))
	if err != nil {
		return 0, err
	}
	if s.Redis != nil {
		if err := s.Redis.Set(ctx, key, n, unreadTTL).Err(); err != nil {
			s.Log.Warn().Err(err).Msg("unread count cache write failed")
		}
	}
	return n, nil
}

func (s *Service) invalidate(ctx context.Context, customerID uuid.UUID) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, cache.KeyUnreadCount(customerID.String())).Err(); err != nil {
		s.Log.Warn().Err(err).Str("customer_id", customerID.String()).Msg("unread count invalidation failed")
	}
}

func parseKind(kind string) (dbgen.NotificationKind, error) {
	switch k := dbgen.NotificationKind(strings.ToLower(strings.TrimSpace(kind))); k {
	case dbgen.NotificationKindPlatform, dbgen.NotificationKindSale, dbgen.NotificationKindStock,
		dbgen.NotificationKindMessage, dbgen.NotificationKindOrder, dbgen.NotificationKindReview,
		dbgen.NotificationKindReward:
		return k, nil
	}
	return "", fmt.Errorf("kind %q: %w", kind, ErrInvalidKind)
}

func convert(row dbgen.Notification) Notification {
	return Notification{
		ID:        common.UUIDString(row.ID),
		Kind:      string(row.Kind),
		Message:   row.Message,
		Link:      common.TextPtr(row.Link),
		IsRead:    row.IsRead,
		CreatedAt: row.CreatedAt.Time,
	}
}
