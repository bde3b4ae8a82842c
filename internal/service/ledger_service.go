package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/ledger"
	"github.com/mmynk/groupledger/internal/metrics"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
	"github.com/mmynk/groupledger/internal/storage"
)

// Bill is the input of AllocateBill and SplitBill.
type Bill struct {
	Items   []models.BillLineItem `json:"items"`
	Charges models.BillCharges    `json:"charges"`
	Treat   models.Treat          `json:"treat"`
}

// LedgerService allocates bills, records them in a group's ledger and
// computes balances and settlement plans from the unsettled entries.
//
// Writes to one group are serialized so a SettleAll never interleaves with a
// PostBill on the same ledger.
type LedgerService struct {
	store      storage.Store
	metrics    *metrics.Metrics
	ledgerOpts []ledger.Option

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a LedgerService.
type Option func(*LedgerService)

// WithMetrics records ledger activity in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *LedgerService) { s.metrics = m }
}

// WithLedgerOptions passes opts to entry creation (clock, ID generator).
func WithLedgerOptions(opts ...ledger.Option) Option {
	return func(s *LedgerService) { s.ledgerOpts = append(s.ledgerOpts, opts...) }
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store, opts ...Option) *LedgerService {
	s := &LedgerService{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *LedgerService) lock(groupID string) func() {
	s.mu.Lock()
	l, ok := s.locks[groupID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[groupID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// AllocateBill splits a bill over the group's members without touching the
// ledger.
func (s *LedgerService) AllocateBill(ctx context.Context, groupID string, bill Bill) (*models.Allocation, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		logFailure("AllocateBill", err, "group_id", groupID)
		return nil, err
	}
	return s.allocate(group, bill)
}

func (s *LedgerService) allocate(group *models.Group, bill Bill) (*models.Allocation, error) {
	for i, item := range bill.Items {
		slog.Debug("Processing item",
			"index", i+1,
			"name", item.Name,
			"price", item.Price,
			"quantity", item.Quantity,
			"assigned_to", item.AssignedTo,
		)
	}

	alloc, err := calculator.AllocateBill(bill.Items, bill.Charges, bill.Treat, group.MemberIDs())
	if err != nil {
		logFailure("AllocateBill", err, "group_id", group.ID)
		return nil, err
	}

	for _, w := range alloc.Warnings {
		s.metrics.Discrepancy()
		slog.Warn("Allocation discrepancy",
			"group_id", group.ID,
			"expected", w.Expected,
			"allocated", w.Allocated,
			"difference", w.Difference,
		)
	}
	slog.Info("Bill allocated",
		"group_id", group.ID,
		"items", len(bill.Items),
		"grand_total", alloc.GrandTotal,
	)
	return alloc, nil
}

// PostBill records that payerID paid for the group: every other member with
// a positive total gets an entry owing the payer that amount.
func (s *LedgerService) PostBill(ctx context.Context, groupID, payerID string, memberTotals map[string]money.Money, note string) ([]models.LedgerEntry, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		logFailure("PostBill", err, "group_id", groupID)
		return nil, err
	}
	return s.post(ctx, group, payerID, memberTotals, note)
}

func (s *LedgerService) post(ctx context.Context, group *models.Group, payerID string, memberTotals map[string]money.Money, note string) ([]models.LedgerEntry, error) {
	if err := checkMembers(group, payerID, memberTotals); err != nil {
		logFailure("PostBill", err, "group_id", group.ID, "payer_id", payerID)
		return nil, err
	}

	entries, err := ledger.NewBillEntries(payerID, memberTotals, note, s.ledgerOpts...)
	if err != nil {
		logFailure("PostBill", err, "group_id", group.ID, "payer_id", payerID)
		return nil, err
	}
	if entries == nil {
		entries = []models.LedgerEntry{}
	}

	unlock := s.lock(group.ID)
	defer unlock()

	if err := s.store.AppendEntries(ctx, group.ID, entries); err != nil {
		logFailure("PostBill", err, "group_id", group.ID, "payer_id", payerID)
		return nil, err
	}

	s.metrics.BillPosted(len(entries))
	slog.Info("Bill posted",
		"group_id", group.ID,
		"payer_id", payerID,
		"entries", len(entries),
	)
	return entries, nil
}

// SplitBill allocates a bill and posts the member totals in one call.
// Discrepancy warnings do not stop the post; they are returned with the
// allocation.
func (s *LedgerService) SplitBill(ctx context.Context, groupID, payerID string, bill Bill, note string) (*models.Allocation, []models.LedgerEntry, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		logFailure("SplitBill", err, "group_id", groupID)
		return nil, nil, err
	}

	alloc, err := s.allocate(group, bill)
	if err != nil {
		return nil, nil, err
	}

	entries, err := s.post(ctx, group, payerID, alloc.MemberTotals, note)
	if err != nil {
		return nil, nil, err
	}
	return alloc, entries, nil
}

// Entries returns the group's ledger in insertion order.
func (s *LedgerService) Entries(ctx context.Context, groupID string, unsettledOnly bool) ([]models.LedgerEntry, error) {
	entries, err := s.store.ListEntries(ctx, groupID)
	if err != nil {
		logFailure("Entries", err, "group_id", groupID)
		return nil, err
	}
	if unsettledOnly {
		entries = ledger.New(groupID, entries).Unsettled()
		if entries == nil {
			entries = []models.LedgerEntry{}
		}
	}
	return entries, nil
}

// Simplify proposes the transfers that clear the group's unsettled debts.
// Nothing is written.
func (s *LedgerService) Simplify(ctx context.Context, groupID string) ([]models.Settlement, error) {
	group, entries, err := s.load(ctx, groupID)
	if err != nil {
		logFailure("Simplify", err, "group_id", groupID)
		return nil, err
	}

	settlements := calculator.SimplifyDebts(entries, group.MemberIDs())
	slog.Info("Debts simplified",
		"group_id", groupID,
		"entries", len(entries),
		"settlements", len(settlements),
	)
	return settlements, nil
}

// Balances returns every member's net position over the unsettled ledger.
func (s *LedgerService) Balances(ctx context.Context, groupID string) ([]models.MemberBalance, error) {
	group, entries, err := s.load(ctx, groupID)
	if err != nil {
		logFailure("Balances", err, "group_id", groupID)
		return nil, err
	}
	return calculator.NetBalances(entries, group.MemberIDs()), nil
}

// SettleAll flags every unsettled entry of the group settled.
func (s *LedgerService) SettleAll(ctx context.Context, groupID string) (int, error) {
	unlock := s.lock(groupID)
	defer unlock()

	n, err := s.store.SettleAll(ctx, groupID)
	if err != nil {
		logFailure("SettleAll", err, "group_id", groupID)
		return 0, err
	}
	s.metrics.Settled(n)
	slog.Info("Ledger settled", "group_id", groupID, "entries", n)
	return n, nil
}

// SettleEntries flags only the named entries settled.
func (s *LedgerService) SettleEntries(ctx context.Context, groupID string, entryIDs []string) (int, error) {
	unlock := s.lock(groupID)
	defer unlock()

	n, err := s.store.SettleEntries(ctx, groupID, entryIDs)
	if err != nil {
		logFailure("SettleEntries", err, "group_id", groupID)
		return 0, err
	}
	s.metrics.Settled(n)
	slog.Info("Entries settled", "group_id", groupID, "requested", len(entryIDs), "entries", n)
	return n, nil
}

// Export encodes the group's ledger as a ledger.Document.
func (s *LedgerService) Export(ctx context.Context, groupID string) ([]byte, error) {
	entries, err := s.store.ListEntries(ctx, groupID)
	if err != nil {
		logFailure("Export", err, "group_id", groupID)
		return nil, err
	}
	return ledger.New(groupID, entries).Marshal()
}

// Import parses a ledger.Document and appends its entries to the group it
// names. The group must exist, every entry must be between two of its
// members, and none of the entry IDs may already be in its ledger.
func (s *LedgerService) Import(ctx context.Context, data []byte) (string, int, error) {
	l, err := ledger.Parse(data)
	if err != nil {
		logFailure("Import", err)
		return "", 0, err
	}

	unlock := s.lock(l.GroupID)
	defer unlock()

	group, existing, err := s.load(ctx, l.GroupID)
	if err != nil {
		logFailure("Import", err, "group_id", l.GroupID)
		return "", 0, err
	}
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.ID] = true
	}
	entries := l.Entries()
	for _, e := range entries {
		var err error
		switch {
		case seen[e.ID]:
			err = models.InvalidInput("entry %s is already in group %s", e.ID, l.GroupID)
		case !group.HasMember(e.FromMemberID):
			err = models.InvalidInput("entry %s: %s is not a member of group %s", e.ID, e.FromMemberID, l.GroupID)
		case !group.HasMember(e.ToMemberID):
			err = models.InvalidInput("entry %s: %s is not a member of group %s", e.ID, e.ToMemberID, l.GroupID)
		}
		if err != nil {
			logFailure("Import", err, "group_id", l.GroupID)
			return "", 0, err
		}
	}

	if err := s.store.AppendEntries(ctx, l.GroupID, entries); err != nil {
		logFailure("Import", err, "group_id", l.GroupID)
		return "", 0, err
	}
	s.metrics.EntriesAppended(len(entries))
	slog.Info("Ledger imported", "group_id", l.GroupID, "entries", len(entries))
	return l.GroupID, len(entries), nil
}

func (s *LedgerService) load(ctx context.Context, groupID string) (*models.Group, []models.LedgerEntry, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.store.ListEntries(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	return group, entries, nil
}

// checkMembers requires the payer and every member owed a share to belong to
// the group.
func checkMembers(group *models.Group, payerID string, memberTotals map[string]money.Money) error {
	if payerID != "" && !group.HasMember(payerID) {
		return models.InvalidInput("payer %s is not a member of group %s", payerID, group.ID)
	}
	for id, amount := range memberTotals {
		if amount != 0 && id != "" && !group.HasMember(id) {
			return models.InvalidInput("member %s is not in group %s", id, group.ID)
		}
	}
	return nil
}
