package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/gopherbistro/internal/domain/errors"
	"github.com/polkiloo/gopherbistro/internal/domain/model"
	"github.com/polkiloo/gopherbistro/internal/domain/repository"
)

type memTxKey struct{}

// memTx journals how to revert each write made inside one transaction.
type memTx struct {
	undo []func(st *memState)
}

type memState struct {
	accounts     map[int64]model.Account
	ledger       map[int64][]model.LedgerEntry
	orders       map[int64]model.Order
	reservations map[int64]model.Reservation
	menu         map[string]model.MenuItem
	rewards      map[int64]model.RedeemableItem
	redemptions  []model.Redemption
	events       []model.Event
	nextID       int64
}

func (s memState) clone() memState {
	c := memState{
		accounts:     make(map[int64]model.Account, len(s.accounts)),
		ledger:       make(map[int64][]model.LedgerEntry, len(s.ledger)),
		orders:       make(map[int64]model.Order, len(s.orders)),
		reservations: make(map[int64]model.Reservation, len(s.reservations)),
		menu:         make(map[string]model.MenuItem, len(s.menu)),
		rewards:      make(map[int64]model.RedeemableItem, len(s.rewards)),
		redemptions:  append([]model.Redemption(nil), s.redemptions...),
		events:       append([]model.Event(nil), s.events...),
		nextID:       s.nextID,
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.ledger {
		c.ledger[k] = append([]model.LedgerEntry(nil), v...)
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	for k, v := range s.menu {
		c.menu[k] = v
	}
	for k, v := range s.rewards {
		c.rewards[k] = v
	}
	return c
}

// MemoryStore keeps every aggregate in memory and implements all repositories
// together with a transactor that rolls back on error.
type MemoryStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	st   memState

	// Concurrent lets transactions overlap. Writes become visible immediately
	// and a failed transaction reverts only its own writes, so concurrent
	// ledger appends race on the (account, seq) check the way they do in Postgres.
	Concurrent bool

	// FailAppends makes the next N ledger appends report a lost optimistic write.
	FailAppends int
	// AppendCalls counts ledger appends, failed ones included.
	AppendCalls int
	// AfterHead runs after every ledger head read, outside the store lock.
	AfterHead func(accountID int64)
	Now       func() time.Time
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		st: memState{
			accounts:     make(map[int64]model.Account),
			ledger:       make(map[int64][]model.LedgerEntry),
			orders:       make(map[int64]model.Order),
			reservations: make(map[int64]model.Reservation),
			menu:         make(map[string]model.MenuItem),
			rewards:      make(map[int64]model.RedeemableItem),
		},
		Now: time.Now,
	}
}

// WithinTransaction runs fn as one unit of work and reverts its writes when fn fails.
// Units run one at a time unless Concurrent is set.
func (s *MemoryStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	tx := &memTx{}
	ctx = context.WithValue(ctx, memTxKey{}, tx)

	if s.Concurrent {
		err := fn(ctx)
		if err != nil {
			s.mu.Lock()
			for i := len(tx.undo) - 1; i >= 0; i-- {
				tx.undo[i](&s.st)
			}
			s.mu.Unlock()
		}
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// onRollback journals fn for the enclosing transaction. Callers hold s.mu.
func (s *MemoryStore) onRollback(ctx context.Context, fn func(st *memState)) {
	if tx, ok := ctx.Value(memTxKey{}).(*memTx); ok {
		tx.undo = append(tx.undo, fn)
	}
}

func (s *MemoryStore) id() int64 {
	s.st.nextID++
	return s.st.nextID
}

// Accounts returns the account repository view.
func (s *MemoryStore) Accounts() repository.AccountRepository { return memAccounts{s} }

// Ledger returns the ledger repository view.
func (s *MemoryStore) Ledger() repository.LedgerRepository { return memLedger{s} }

// Orders returns the order repository view.
func (s *MemoryStore) Orders() repository.OrderRepository { return memOrders{s} }

// Reservations returns the reservation repository view.
func (s *MemoryStore) Reservations() repository.ReservationRepository { return memReservations{s} }

// Menu returns the menu catalog view.
func (s *MemoryStore) Menu() repository.MenuCatalog { return memMenu{s} }

// Rewards returns the reward repository view.
func (s *MemoryStore) Rewards() repository.RewardRepository { return memRewards{s} }

// Redemptions returns the redemption repository view.
func (s *MemoryStore) Redemptions() repository.RedemptionRepository { return memRedemptions{s} }

// Outbox returns the outbox repository view.
func (s *MemoryStore) Outbox() repository.OutboxRepository { return memOutbox{s} }

// SumDeltas adds every ledger delta of the account.
func (s *MemoryStore) SumDeltas(accountID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum int64
	for _, e := range s.st.ledger[accountID] {
		sum += e.Delta
	}
	return sum
}

// Entries returns the account's ledger oldest first.
func (s *MemoryStore) Entries(accountID int64) []model.LedgerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.LedgerEntry(nil), s.st.ledger[accountID]...)
}

// Events returns enqueued events in order.
func (s *MemoryStore) Events() []model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Event(nil), s.st.events...)
}

// EventsOfType filters Events by type.
func (s *MemoryStore) EventsOfType(t model.EventType) []model.Event {
	var out []model.Event
	for _, e := range s.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// SetOrderStatus forces an order into status bypassing the transition table.
func (s *MemoryStore) SetOrderStatus(id int64, status model.OrderStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.st.orders[id]; ok {
		o.Status = status
		s.st.orders[id] = o
	}
}

type memAccounts struct{ s *MemoryStore }

func (r memAccounts) Create(ctx context.Context, account model.Account) (*model.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.st.accounts {
		if a.Login == account.Login {
			return nil, domainErrors.ErrAlreadyExists
		}
		if a.ReferralCode == account.ReferralCode {
			return nil, domainErrors.ErrConflict
		}
	}
	account.ID = r.s.id()
	account.CreatedAt = r.s.Now()
	r.s.st.accounts[account.ID] = account
	r.s.onRollback(ctx, func(st *memState) { delete(st.accounts, account.ID) })
	return &account, nil
}

func (r memAccounts) GetByLogin(ctx context.Context, login string) (*model.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.st.accounts {
		if a.Login == login {
			return &a, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (r memAccounts) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.st.accounts[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &a, nil
}

func (r memAccounts) GetByReferralCode(ctx context.Context, code string) (*model.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.st.accounts {
		if a.ReferralCode == code {
			return &a, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (r memAccounts) MarkFirstOrderCompleted(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.st.accounts[id]
	if !ok {
		return false, domainErrors.ErrNotFound
	}
	if a.FirstOrderCompleted {
		return false, nil
	}
	a.FirstOrderCompleted = true
	r.s.st.accounts[id] = a
	r.s.onRollback(ctx, func(st *memState) {
		if cur, ok := st.accounts[id]; ok {
			cur.FirstOrderCompleted = false
			st.accounts[id] = cur
		}
	})
	return true, nil
}

type memLedger struct{ s *MemoryStore }

func (r memLedger) Head(ctx context.Context, accountID int64) (model.LedgerHead, error) {
	r.s.mu.Lock()
	var head model.LedgerHead
	if entries := r.s.st.ledger[accountID]; len(entries) > 0 {
		last := entries[len(entries)-1]
		head = model.LedgerHead{Seq: last.Seq, Balance: last.RunningBalance}
	}
	hook := r.s.AfterHead
	r.s.mu.Unlock()

	if hook != nil {
		hook(accountID)
	}
	return head, nil
}

func (r memLedger) Append(ctx context.Context, entry model.LedgerEntry) (*model.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.AppendCalls++
	if r.s.FailAppends > 0 {
		r.s.FailAppends--
		return nil, domainErrors.ErrConflict
	}
	for _, e := range r.s.st.ledger[entry.AccountID] {
		if e.Seq == entry.Seq {
			return nil, domainErrors.ErrConflict
		}
	}
	entry.ID = r.s.id()
	entry.CreatedAt = r.s.Now()
	r.s.st.ledger[entry.AccountID] = append(r.s.st.ledger[entry.AccountID], entry)
	r.s.onRollback(ctx, func(st *memState) {
		st.ledger[entry.AccountID] = removeEntry(st.ledger[entry.AccountID], entry.ID)
	})
	return &entry, nil
}

func (r memLedger) ListByAccount(ctx context.Context, accountID int64) ([]model.LedgerEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entries := r.s.st.ledger[accountID]
	out := make([]model.LedgerEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

func (r memLedger) NetForOrder(ctx context.Context, accountID, orderID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var net int64
	for _, e := range r.s.st.ledger[accountID] {
		if e.RelatedOrderID != nil && *e.RelatedOrderID == orderID {
			net += e.Delta
		}
	}
	return net, nil
}

type memOrders struct{ s *MemoryStore }

func (r memOrders) Create(ctx context.Context, order model.Order) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order.ID = r.s.id()
	order.Items = append([]model.LineItem(nil), order.Items...)
	order.PlacedAt = r.s.Now()
	order.UpdatedAt = order.PlacedAt
	r.s.st.orders[order.ID] = order
	r.s.onRollback(ctx, func(st *memState) { delete(st.orders, order.ID) })
	return &order, nil
}

func (r memOrders) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.st.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &o, nil
}

func (r memOrders) ListByAccount(ctx context.Context, accountID int64) ([]model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Order
	for _, o := range r.s.st.orders {
		if o.AccountID != nil && *o.AccountID == accountID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memOrders) UpdateStatus(ctx context.Context, id int64, from, to model.OrderStatus) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.st.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if o.Status != from {
		return nil, domainErrors.ErrInvalidTransition
	}
	prev := o
	o.Status = to
	o.UpdatedAt = r.s.Now()
	r.s.st.orders[id] = o
	r.s.onRollback(ctx, func(st *memState) { st.orders[id] = prev })
	return &o, nil
}

func (r memOrders) MarkCompleted(ctx context.Context, id int64, pointsEarned int64) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.st.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if o.Status != model.OrderStatusReady {
		return nil, domainErrors.ErrInvalidTransition
	}
	prev := o
	o.Status = model.OrderStatusCompleted
	o.PointsEarned = pointsEarned
	o.UpdatedAt = r.s.Now()
	r.s.st.orders[id] = o
	r.s.onRollback(ctx, func(st *memState) { st.orders[id] = prev })
	return &o, nil
}

type memReservations struct{ s *MemoryStore }

func (r memReservations) Create(ctx context.Context, reservation model.Reservation) (*model.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	reservation.ID = r.s.id()
	reservation.CreatedAt = r.s.Now()
	reservation.UpdatedAt = reservation.CreatedAt
	r.s.st.reservations[reservation.ID] = reservation
	r.s.onRollback(ctx, func(st *memState) { delete(st.reservations, reservation.ID) })
	return &reservation, nil
}

func (r memReservations) GetByID(ctx context.Context, id int64) (*model.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.st.reservations[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &res, nil
}

func (r memReservations) ListByAccount(ctx context.Context, accountID int64) ([]model.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Reservation
	for _, res := range r.s.st.reservations {
		if res.AccountID != nil && *res.AccountID == accountID {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReservedFor.Before(out[j].ReservedFor) })
	return out, nil
}

func (r memReservations) UpdateStatus(ctx context.Context, id int64, from, to model.ReservationStatus) (*model.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.st.reservations[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if res.Status != from {
		return nil, domainErrors.ErrInvalidTransition
	}
	prev := res
	res.Status = to
	res.UpdatedAt = r.s.Now()
	r.s.st.reservations[id] = res
	r.s.onRollback(ctx, func(st *memState) { st.reservations[id] = prev })
	return &res, nil
}

type memMenu struct{ s *MemoryStore }

func (r memMenu) GetMenuItem(ctx context.Context, id string) (*model.MenuItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.st.menu[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &item, nil
}

func (r memMenu) ListMenu(ctx context.Context) ([]model.MenuItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.MenuItem, 0, len(r.s.st.menu))
	for _, item := range r.s.st.menu {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memMenu) UpsertMenuItem(ctx context.Context, item model.MenuItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, existed := r.s.st.menu[item.ID]
	r.s.st.menu[item.ID] = item
	r.s.onRollback(ctx, func(st *memState) {
		if existed {
			st.menu[item.ID] = prev
			return
		}
		delete(st.menu, item.ID)
	})
	return nil
}

type memRewards struct{ s *MemoryStore }

func (r memRewards) Get(ctx context.Context, id int64) (*model.RedeemableItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.st.rewards[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &item, nil
}

func (r memRewards) List(ctx context.Context) ([]model.RedeemableItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.RedeemableItem, 0, len(r.s.st.rewards))
	for _, item := range r.s.st.rewards {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memRewards) Update(ctx context.Context, id int64, update model.RewardUpdate) (*model.RedeemableItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.st.rewards[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	prev := item
	if update.PointsCost != nil {
		item.PointsCost = *update.PointsCost
	}
	if update.InStock != nil {
		item.InStock = *update.InStock
	}
	r.s.st.rewards[id] = item
	r.s.onRollback(ctx, func(st *memState) { st.rewards[id] = prev })
	return &item, nil
}

func (r memRewards) Upsert(ctx context.Context, item model.RedeemableItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, existed := r.s.st.rewards[item.ID]
	r.s.st.rewards[item.ID] = item
	r.s.onRollback(ctx, func(st *memState) {
		if existed {
			st.rewards[item.ID] = prev
			return
		}
		delete(st.rewards, item.ID)
	})
	return nil
}

type memRedemptions struct{ s *MemoryStore }

func (r memRedemptions) Create(ctx context.Context, redemption model.Redemption) (*model.Redemption, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	redemption.ID = r.s.id()
	redemption.CreatedAt = r.s.Now()
	r.s.st.redemptions = append(r.s.st.redemptions, redemption)
	r.s.onRollback(ctx, func(st *memState) {
		for i := range st.redemptions {
			if st.redemptions[i].ID == redemption.ID {
				st.redemptions = append(st.redemptions[:i], st.redemptions[i+1:]...)
				return
			}
		}
	})
	return &redemption, nil
}

func (r memRedemptions) ListByAccount(ctx context.Context, accountID int64) ([]model.Redemption, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Redemption
	for i := len(r.s.st.redemptions) - 1; i >= 0; i-- {
		if r.s.st.redemptions[i].AccountID == accountID {
			out = append(out, r.s.st.redemptions[i])
		}
	}
	return out, nil
}

type memOutbox struct{ s *MemoryStore }

func (r memOutbox) Enqueue(ctx context.Context, event model.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	event.ID = r.s.id()
	event.Status = model.EventStatusNew
	event.CreatedAt = r.s.Now()
	r.s.st.events = append(r.s.st.events, event)
	r.s.onRollback(ctx, func(st *memState) {
		for i := range st.events {
			if st.events[i].ID == event.ID {
				st.events = append(st.events[:i], st.events[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (r memOutbox) SelectBatchForDispatch(ctx context.Context, limit int) ([]model.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Event
	for i := range r.s.st.events {
		if len(out) >= limit {
			break
		}
		if r.s.st.events[i].Status != model.EventStatusNew {
			continue
		}
		r.s.st.events[i].Status = model.EventStatusSending
		r.s.st.events[i].Attempts++
		out = append(out, r.s.st.events[i])
		id := r.s.st.events[i].ID
		r.s.onRollback(ctx, func(st *memState) {
			for j := range st.events {
				if st.events[j].ID == id {
					st.events[j].Status = model.EventStatusNew
					st.events[j].Attempts--
				}
			}
		})
	}
	return out, nil
}

func (r memOutbox) MarkDispatched(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.st.events {
		if r.s.st.events[i].ID == id {
			r.s.st.events[i].Status = model.EventStatusSent
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func (r memOutbox) Release(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range r.s.st.events {
		if r.s.st.events[i].ID == id {
			if r.s.st.events[i].Status == model.EventStatusSending {
				r.s.st.events[i].Status = model.EventStatusNew
			}
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

func removeEntry(entries []model.LedgerEntry, id int64) []model.LedgerEntry {
	for i := range entries {
		if entries[i].ID == id {
			return append(entries[:i:i], entries[i+1:]...)
		}
	}
	return entries
}

var (
	_ repository.Factory    = (*MemoryStore)(nil)
	_ repository.Transactor = (*MemoryStore)(nil)
)
