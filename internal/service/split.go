package service

import (
	"github.com/inditecg-developers/EmoscreenPaid/internal/model"

	"github.com/shopspring/decimal"
)

// ComputeRevenueSplit divides a captured amount between the two fixed
// parties. The first party gets the floor of its percentage share and the
// second party the remainder, so the shares always sum exactly to the amount
// (the rounding remainder is at most one paisa).
func ComputeRevenueSplit(transactionID string, amountPaise int64, firstPartyPercent decimal.Decimal) []*model.RevenueSplit {
	firstShare := decimal.NewFromInt(amountPaise).
		Mul(firstPartyPercent).
		Div(decimal.NewFromInt(100)).
		Floor().
		IntPart()
	secondShare := amountPaise - firstShare
	secondPartyPercent := decimal.NewFromInt(100).Sub(firstPartyPercent)

	return []*model.RevenueSplit{
		{
			TransactionID: transactionID,
			Party:         model.PartyInditech,
			Percent:       firstPartyPercent,
			AmountPaise:   firstShare,
		},
		{
			TransactionID: transactionID,
			Party:         model.PartyEquipoise,
			Percent:       secondPartyPercent,
			AmountPaise:   secondShare,
		},
	}
}
