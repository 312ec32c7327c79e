package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/money"
)

// LedgerService implements the Connect LedgerService. The acting member is
// always the authenticated one; group calls require roster membership.
type LedgerService struct {
	ledger *ledger.Ledger
}

// NewLedgerService creates a new LedgerService backed by l.
func NewLedgerService(l *ledger.Ledger) *LedgerService {
	return &LedgerService{ledger: l}
}

// RecordIndividualExpense records an expense the caller paid for themselves
// and the listed participants.
func (s *LedgerService) RecordIndividualExpense(ctx context.Context, req *connect.Request[RecordIndividualExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	member, err := actingMember(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("RecordIndividualExpense request received",
		"member_id", member,
		"participants_count", len(req.Msg.Participants),
	)

	amount, err := parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	recorded, err := s.ledger.RecordIndividualExpense(ctx, member, req.Msg.Participants, amount, req.Msg.Description)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(toExpenseResponse(recorded)), nil
}

// RecordGroupExpense records an expense shared by the whole group.
func (s *LedgerService) RecordGroupExpense(ctx context.Context, req *connect.Request[RecordGroupExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	member, err := actingMember(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("RecordGroupExpense request received",
		"member_id", member,
		"group_id", req.Msg.GroupID,
		"contributors", len(req.Msg.Contributions),
	)

	if _, err := s.ledger.RequireMember(ctx, req.Msg.GroupID, member); err != nil {
		return nil, toConnectError(err)
	}

	amount, err := parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	contributions := calculator.PayerContributions(member, amount)
	if len(req.Msg.Contributions) > 0 {
		contributions = make(map[string]decimal.Decimal, len(req.Msg.Contributions))
		for m, raw := range req.Msg.Contributions {
			c, err := parseAmount("contribution of "+m, raw)
			if err != nil {
				return nil, toConnectError(err)
			}
			contributions[m] = c
		}
	}

	recorded, err := s.ledger.RecordGroupExpense(ctx, req.Msg.GroupID, amount, contributions, req.Msg.Description)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(toExpenseResponse(recorded)), nil
}

// RecalculateGroupSplits regenerates the group's settling transfers.
func (s *LedgerService) RecalculateGroupSplits(ctx context.Context, req *connect.Request[GroupRequest]) (*connect.Response[SplitsResponse], error) {
	member, err := actingMember(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("RecalculateGroupSplits request received", "member_id", member, "group_id", req.Msg.GroupID)

	if _, err := s.ledger.RequireMember(ctx, req.Msg.GroupID, member); err != nil {
		return nil, toConnectError(err)
	}

	result, err := s.ledger.RecalculateGroupSplits(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	splits := result.Splits
	if result.Status == ledger.StatusNothingToSplit {
		// The stored list is untouched; show it.
		if splits, err = s.ledger.ListGroupSplits(ctx, req.Msg.GroupID); err != nil {
			return nil, toConnectError(err)
		}
	}

	return connect.NewResponse(toSplits(result.GroupID, result.Status, splits)), nil
}

// ListGroupSplits returns the group's current splits.
func (s *LedgerService) ListGroupSplits(ctx context.Context, req *connect.Request[GroupRequest]) (*connect.Response[SplitsResponse], error) {
	member, err := actingMember(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.ledger.RequireMember(ctx, req.Msg.GroupID, member); err != nil {
		return nil, toConnectError(err)
	}

	splits, err := s.ledger.ListGroupSplits(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(toSplits(req.Msg.GroupID, "", splits)), nil
}

// ClearGroupSplits discards the group's splits.
func (s *LedgerService) ClearGroupSplits(ctx context.Context, req *connect.Request[GroupRequest]) (*connect.Response[emptypb.Empty], error) {
	member, err := actingMember(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("ClearGroupSplits request received", "member_id", member, "group_id", req.Msg.GroupID)

	if _, err := s.ledger.RequireMember(ctx, req.Msg.GroupID, member); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.ledger.ClearGroupSplits(ctx, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&emptypb.Empty{}), nil
}

// SettleShare marks a share as paid on behalf of the caller.
func (s *LedgerService) SettleShare(ctx context.Context, req *connect.Request[SettleShareRequest]) (*connect.Response[SettleShareResponse], error) {
	member, err := actingMember(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("SettleShare request received", "member_id", member, "share_id", req.Msg.ShareID)

	if err := required("share_id", req.Msg.ShareID); err != nil {
		return nil, toConnectError(err)
	}

	settlement, err := s.ledger.SettleShare(ctx, req.Msg.ShareID, member)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&SettleShareResponse{
		ShareID:        settlement.Share.ID,
		Debtor:         settlement.Debtor,
		Creditor:       settlement.Creditor,
		Amount:         money.Format(settlement.Amount),
		AlreadySettled: settlement.AlreadySettled,
	}), nil
}

// DeleteExpense removes an expense the caller paid.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[emptypb.Empty], error) {
	member, err := actingMember(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteExpense request received", "member_id", member, "expense_id", req.Msg.ExpenseID)

	if err := s.ledger.DeleteExpense(ctx, req.Msg.ExpenseID, member); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&emptypb.Empty{}), nil
}

// ListGroupExpenses returns the group's expenses, newest first.
func (s *LedgerService) ListGroupExpenses(ctx context.Context, req *connect.Request[GroupRequest]) (*connect.Response[ListExpensesResponse], error) {
	member, err := actingMember(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.ledger.RequireMember(ctx, req.Msg.GroupID, member); err != nil {
		return nil, toConnectError(err)
	}

	expenses, err := s.ledger.ListGroupExpenses(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*Expense, len(expenses))
	for i, e := range expenses {
		out[i] = toExpense(e)
	}
	return connect.NewResponse(&ListExpensesResponse{Expenses: out}), nil
}

// GetBalances returns what the caller owes and is owed.
func (s *LedgerService) GetBalances(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[BalancesResponse], error) {
	member, err := actingMember(ctx)
	if err != nil {
		return nil, err
	}

	b, err := s.ledger.GetBalancesForMember(ctx, member)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&BalancesResponse{
		Member:        b.Member,
		IOwe:          toBalanceItems(b.IOwe),
		OwedToMe:      toBalanceItems(b.OwedToMe),
		IOweTotal:     money.Format(b.IOweTotal),
		OwedToMeTotal: money.Format(b.OwedToMeTotal),
		Net:           money.Format(b.Net),
	}), nil
}

// GetHistory returns the caller's transaction history, newest first.
func (s *LedgerService) GetHistory(ctx context.Context, _ *connect.Request[emptypb.Empty]) (*connect.Response[HistoryResponse], error) {
	member, err := actingMember(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledger.GetHistoryForMember(ctx, member)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&HistoryResponse{Entries: toHistory(entries)}), nil
}
