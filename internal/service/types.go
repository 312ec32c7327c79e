package service

import (
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// Wire types. Amounts travel as decimal strings with two places; timestamps
// are Unix seconds.

type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

type Expense struct {
	ID           string   `json:"id"`
	PayerID      string   `json:"payer_id"`
	Amount       string   `json:"amount"`
	Description  string   `json:"description"`
	GroupID      string   `json:"group_id,omitempty"`
	Participants []string `json:"participants"`
	CreatedAt    int64    `json:"created_at"`
}

type Share struct {
	ID       string `json:"id"`
	MemberID string `json:"member_id"`
	Amount   string `json:"amount"`
	Settled  bool   `json:"settled"`
}

type Split struct {
	ID         string `json:"id"`
	FromMember string `json:"from_member"`
	ToMember   string `json:"to_member"`
	Amount     string `json:"amount"`
	Settled    bool   `json:"settled"`
}

type BalanceItem struct {
	ShareID      string `json:"share_id"`
	ExpenseID    string `json:"expense_id"`
	GroupID      string `json:"group_id,omitempty"`
	Description  string `json:"description"`
	Counterparty string `json:"counterparty"`
	Amount       string `json:"amount"`
}

type HistoryEntry struct {
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	Amount        string `json:"amount"`
	GroupID       string `json:"group_id,omitempty"`
	RelatedMember string `json:"related_member,omitempty"`
	Description   string `json:"description"`
	CreatedAt     int64  `json:"created_at"`
	SettledAt     int64  `json:"settled_at,omitempty"`
}

// LedgerService messages

type RecordIndividualExpenseRequest struct {
	Participants []string `json:"participants"`
	Amount       string   `json:"amount"`
	Description  string   `json:"description"`
}

type RecordGroupExpenseRequest struct {
	GroupID string `json:"group_id"`
	Amount  string `json:"amount"`
	// Contributions maps members to what they paid. Empty means the caller
	// paid the whole amount.
	Contributions map[string]string `json:"contributions,omitempty"`
	Description   string            `json:"description"`
}

type ExpenseResponse struct {
	Expense *Expense `json:"expense"`
	Shares  []*Share `json:"shares"`
}

type GroupRequest struct {
	GroupID string `json:"group_id"`
}

type SplitsResponse struct {
	GroupID string   `json:"group_id"`
	Status  string   `json:"status,omitempty"`
	Splits  []*Split `json:"splits"`
}

type SettleShareRequest struct {
	ShareID string `json:"share_id"`
}

type SettleShareResponse struct {
	ShareID        string `json:"share_id"`
	Debtor         string `json:"debtor"`
	Creditor       string `json:"creditor"`
	Amount         string `json:"amount"`
	AlreadySettled bool   `json:"already_settled"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type BalancesResponse struct {
	Member        string         `json:"member"`
	IOwe          []*BalanceItem `json:"i_owe"`
	OwedToMe      []*BalanceItem `json:"owed_to_me"`
	IOweTotal     string         `json:"i_owe_total"`
	OwedToMeTotal string         `json:"owed_to_me_total"`
	Net           string         `json:"net"`
}

type HistoryResponse struct {
	Entries []*HistoryEntry `json:"entries"`
}

// GroupService messages

type CreateGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type GroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type AddFriendRequest struct {
	Friend string `json:"friend"`
}

type ListFriendsResponse struct {
	Friends []string `json:"friends"`
}

// Conversions from ledger records.

func toGroup(g *models.Group) *Group {
	return &Group{ID: g.ID, Name: g.Name, Members: g.Members, CreatedAt: g.CreatedAt}
}

func toExpense(e *models.Expense) *Expense {
	return &Expense{
		ID:           e.ID,
		PayerID:      e.PayerID,
		Amount:       money.Format(e.Amount),
		Description:  e.Description,
		GroupID:      e.GroupID,
		Participants: e.Participants,
		CreatedAt:    e.CreatedAt,
	}
}

func toExpenseResponse(r *ledger.RecordedExpense) *ExpenseResponse {
	shares := make([]*Share, len(r.Shares))
	for i, s := range r.Shares {
		shares[i] = &Share{ID: s.ID, MemberID: s.MemberID, Amount: money.Format(s.Amount), Settled: s.Settled}
	}
	return &ExpenseResponse{Expense: toExpense(r.Expense), Shares: shares}
}

func toSplits(groupID string, status ledger.SplitStatus, splits []*models.Split) *SplitsResponse {
	out := make([]*Split, len(splits))
	for i, s := range splits {
		out[i] = &Split{
			ID:         s.ID,
			FromMember: s.FromMember,
			ToMember:   s.ToMember,
			Amount:     money.Format(s.Amount),
			Settled:    s.Settled,
		}
	}
	return &SplitsResponse{GroupID: groupID, Status: string(status), Splits: out}
}

func toBalanceItems(items []ledger.BalanceItem) []*BalanceItem {
	out := make([]*BalanceItem, len(items))
	for i, it := range items {
		out[i] = &BalanceItem{
			ShareID:      it.ShareID,
			ExpenseID:    it.ExpenseID,
			GroupID:      it.GroupID,
			Description:  it.Description,
			Counterparty: it.Counterparty,
			Amount:       money.Format(it.Amount),
		}
	}
	return out
}

func toHistory(entries []*models.HistoryEntry) []*HistoryEntry {
	out := make([]*HistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = &HistoryEntry{
			ID:            e.ID,
			Kind:          string(e.Kind),
			Amount:        money.Format(e.Amount),
			GroupID:       e.GroupID,
			RelatedMember: e.RelatedMember,
			Description:   e.Description,
			CreatedAt:     e.CreatedAt,
			SettledAt:     e.SettledAt,
		}
	}
	return out
}
