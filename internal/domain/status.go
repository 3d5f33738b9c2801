package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// enumToken lower-cases, strips diacritics and collapses separators so that
// user-typed values like "Não Realizado" or "FIXO TERCEIRO" match their
// canonical enum form.
func enumToken(s string) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		stripped = s
	}
	stripped = strings.ToLower(strings.TrimSpace(stripped))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(stripped)
}

// ParseAppointmentStatus accepts the canonical status names and their
// Portuguese equivalents, case- and accent-insensitive.
func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch enumToken(s) {
	case "scheduled", "agendado":
		return StatusScheduled, nil
	case "done", "realizado":
		return StatusDone, nil
	case "not_done", "nao_realizado":
		return StatusNotDone, nil
	}
	return "", Validationf("unknown appointment status %q", s)
}

func ParseMachineStatus(s string) (MachineStatus, error) {
	switch enumToken(s) {
	case "operating", "operando":
		return MachineOperating, nil
	case "maintenance", "manutencao":
		return MachineMaintenance, nil
	case "decommissioned", "baixado":
		return MachineDecommissioned, nil
	}
	return "", Validationf("unknown machine status %q", s)
}

func ParseExpenseKind(s string) (ExpenseKind, error) {
	switch enumToken(s) {
	case "purchase", "compra":
		return ExpensePurchase, nil
	case "fixed_third_party", "fixo_terceiro", "fixoterceiro":
		return ExpenseFixedThirdParty, nil
	case "salary", "salario":
		return ExpenseSalary, nil
	case "commission", "comissao":
		return ExpenseCommission, nil
	case "other", "outros":
		return ExpenseOther, nil
	}
	return "", Validationf("unknown expense kind %q", s)
}

func ParseItemKind(s string) (ItemKind, error) {
	switch enumToken(s) {
	case "service", "servico":
		return ItemService, nil
	case "product", "produto":
		return ItemProduct, nil
	}
	return "", Validationf("unknown item kind %q", s)
}

func ParsePurchaseItemKind(s string) (PurchaseItemKind, error) {
	switch enumToken(s) {
	case "product", "produto":
		return PurchaseItemProduct, nil
	case "supply", "suprimento":
		return PurchaseItemSupply, nil
	case "machine", "maquina":
		return PurchaseItemMachine, nil
	case "other", "outros", "":
		return PurchaseItemOther, nil
	}
	return "", Validationf("unknown purchase item kind %q", s)
}
