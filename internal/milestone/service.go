package milestone

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/richardprab/auroramart/internal/common"
	"github.com/richardprab/auroramart/internal/db"
	dbgen "github.com/richardprab/auroramart/internal/db/gen"
	"github.com/richardprab/auroramart/internal/events"
	"github.com/richardprab/auroramart/internal/obs"
	"github.com/richardprab/auroramart/internal/pricing"
	"github.com/richardprab/auroramart/internal/voucher"
)

const rewardLockTTL = 15 * time.Second

// Store is the persistence surface used for progress and reward issuance.
type Store interface {
	dbgen.Querier
	InTx(ctx context.Context, opts db.TxOptions, fn func(q dbgen.Querier) error) error
}

// Locker serializes reward issuance per customer.
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

// RewardPolicy shapes the vouchers issued for newly reached tiers.
type RewardPolicy struct {
	MinSpend pricing.Money
	Validity time.Duration
}

// Reward is a voucher issued for reaching a tier.
type Reward struct {
	Tier        string        `json:"tier"`
	Threshold   pricing.Money `json:"threshold"`
	VoucherCode string        `json:"voucherCode"`
	Amount      pricing.Money `json:"amount"`
}

// Service computes badge progress and issues tier rewards exactly once.
type Service struct {
	Store    Store
	Vouchers *voucher.Service
	Locker   Locker
	LockTTL  time.Duration
	Events   *events.Bus
	Tiers    []Tier
	Policy   RewardPolicy
	Now      func() time.Time
	Log      zerolog.Logger
}

// ProgressFor sums the customer's delivered orders and maps them onto the tiers.
func (s *Service) ProgressFor(ctx context.Context, customerID uuid.UUID) (Progress, error) {
	amount, err := s.Store.SumDeliveredOrderTotals(ctx, common.PgUUID(customerID))
	if err != nil {
		return Progress{}, fmt.Errorf("sum delivered orders: %w", err)
	}
	return Calculate(s.Tiers, amount), nil
}

// All lists every tier with progress and whether its reward was issued.
func (s *Service) All(ctx context.Context, customerID uuid.UUID) ([]Milestone, error) {
	customer := common.PgUUID(customerID)
	amount, err := s.Store.SumDeliveredOrderTotals(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("sum delivered orders: %w", err)
	}
	issued, err := s.Store.ListMilestoneRewards(ctx, customer)
	if err != nil {
		return nil, err
	}
	have := make(map[int64]struct{}, len(issued))
	for _, r := range issued {
		have[r.TierThreshold] = struct{}{}
	}
	out := AllMilestones(s.Tiers, amount)
	for i := range out {
		_, out[i].RewardIssued = have[out[i].Threshold]
	}
	return out, nil
}

// Evaluate computes progress and issues any reward the customer has earned
// but not yet received. Issuance failures are logged; progress is still returned.
func (s *Service) Evaluate(ctx context.Context, customerID uuid.UUID) (Progress, []Reward, error) {
	p, err := s.ProgressFor(ctx, customerID)
	if err != nil {
		return Progress{}, nil, err
	}
	rewards, err := s.IssueRewards(ctx, customerID, p.CurrentAmount)
	if err != nil {
		s.Log.Warn().Err(err).Str("customer_id", customerID.String()).Msg("milestone reward issuance failed")
	}
	return p, rewards, nil
}

// IssueRewards creates one personal voucher per earned tier that has not
// been rewarded yet. The milestone_rewards unique key makes this idempotent;
// the customer lock only avoids redundant concurrent work.
func (s *Service) IssueRewards(ctx context.Context, customerID uuid.UUID, amount pricing.Money) ([]Reward, error) {
	earned := EarnedRewards(s.Tiers, amount)
	if len(earned) == 0 {
		return nil, nil
	}
	var issued []Reward
	run := func(ctx context.Context) error {
		var (
			evs []dbgen.DomainEvent
			out []Reward
		)
		err := s.Store.InTx(ctx, db.TxOptions{}, func(q dbgen.Querier) error {
			evs, out = nil, nil
			for _, tier := range earned {
				reward, ev, ok, err := s.issue(ctx, q, customerID, tier)
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				out = append(out, reward)
				evs = append(evs, ev)
			}
			return nil
		})
		if err != nil {
			return err
		}
		issued = out
		for _, r := range out {
			obs.IncRewardIssued(r.Tier)
			s.Log.Info().
				Str("customer_id", customerID.String()).
				Str("tier", r.Tier).
				Str("voucher_code", r.VoucherCode).
				Msg("milestone reward issued")
		}
		if s.Events != nil {
			if err := s.Events.Dispatch(ctx, evs...); err != nil {
				s.Log.Warn().Err(err).Str("customer_id", customerID.String()).Msg("reward event dispatch failed")
			}
		}
		return nil
	}
	if s.Locker == nil {
		return issued, run(ctx)
	}
	ttl := s.LockTTL
	if ttl <= 0 {
		ttl = rewardLockTTL
	}
	err := s.Locker.WithLock(ctx, LockKey(customerID), ttl, run)
	return issued, err
}

func (s *Service) issue(ctx context.Context, q dbgen.Querier, customerID uuid.UUID, tier Tier) (Reward, dbgen.DomainEvent, bool, error) {
	customer := common.PgUUID(customerID)
	row, err := q.InsertMilestoneReward(ctx, dbgen.InsertMilestoneRewardParams{
		CustomerID:    customer,
		TierThreshold: tier.Threshold,
		TierName:      tier.Name,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Reward{}, dbgen.DomainEvent{}, false, nil
		}
		return Reward{}, dbgen.DomainEvent{}, false, fmt.Errorf("insert reward %s: %w", tier.Name, err)
	}

	now := s.now()
	owner := customerID.String()
	maxUses := int32(1)
	v, err := s.Vouchers.WithQuerier(q).Create(ctx, voucher.Input{
		Code:               NewRewardCode(),
		Name:               tier.Name + " milestone reward",
		Description:        fmt.Sprintf("Reward for reaching the %s tier", tier.Name),
		DiscountType:       voucher.Fixed,
		DiscountValue:      tier.Reward,
		MinSpend:           s.Policy.MinSpend,
		ValidFrom:          now,
		ValidUntil:         now.Add(s.validity()),
		MaxUses:            &maxUses,
		MaxUsesPerCustomer: &maxUses,
		CustomerID:         &owner,
	})
	if err != nil {
		return Reward{}, dbgen.DomainEvent{}, false, fmt.Errorf("create reward voucher %s: %w", tier.Name, err)
	}
	if err := q.SetMilestoneRewardVoucher(ctx, dbgen.SetMilestoneRewardVoucherParams{ID: row.ID, VoucherID: v.ID}); err != nil {
		return Reward{}, dbgen.DomainEvent{}, false, err
	}
	reward := Reward{Tier: tier.Name, Threshold: tier.Threshold, VoucherCode: v.Code, Amount: tier.Reward}
	ev, err := events.Record(ctx, q, events.TopicRewardIssued, customer, events.RewardIssued{
		CustomerID:  owner,
		Tier:        tier.Name,
		Threshold:   tier.Threshold,
		VoucherCode: v.Code,
		Amount:      tier.Reward,
	})
	if err != nil {
		return Reward{}, dbgen.DomainEvent{}, false, err
	}
	return reward, ev, true, nil
}

// LockKey is the Redis key guarding reward issuance for a customer.
func LockKey(customerID uuid.UUID) string {
	return "lock:milestone:" + customerID.String()
}

// NewRewardCode returns a code of the form REWARD-XXXXXXXX.
func NewRewardCode() string {
	return "REWARD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func (s *Service) validity() time.Duration {
	if s.Policy.Validity > 0 {
		return s.Policy.Validity
	}
	return 365 * 24 * time.Hour
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
