package domain

import "time"

// Enumerations
const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusDone      AppointmentStatus = "done"
	StatusNotDone   AppointmentStatus = "not_done"

	MachineOperating      MachineStatus = "operating"
	MachineMaintenance    MachineStatus = "maintenance"
	MachineDecommissioned MachineStatus = "decommissioned"

	ItemService ItemKind = "service"
	ItemProduct ItemKind = "product"

	ExpensePurchase        ExpenseKind = "purchase"
	ExpenseFixedThirdParty ExpenseKind = "fixed_third_party"
	ExpenseSalary          ExpenseKind = "salary"
	ExpenseCommission      ExpenseKind = "commission"
	ExpenseOther           ExpenseKind = "other"

	PurchaseItemProduct PurchaseItemKind = "product"
	PurchaseItemSupply  PurchaseItemKind = "supply"
	PurchaseItemMachine PurchaseItemKind = "machine"
	PurchaseItemOther   PurchaseItemKind = "other"
)

type AppointmentStatus string
type MachineStatus string
type ItemKind string
type ExpenseKind string
type PurchaseItemKind string

type Employee struct {
	ID        int64
	Name      string
	BirthDate time.Time
	CPF       string
	Role      string
	Phone     string
	Email     string
	Address   string
	Social    string
	PinHash   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Client struct {
	ID        int64
	Name      string
	BirthDate time.Time
	CPF       string
	Phone     string
	Email     string
	Address   string
	Social    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Supplier struct {
	ID        int64
	Name      string
	CNPJ      string
	Phone     string
	Email     string
	Address   string
	Social    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Service struct {
	ID        int64
	Name      string
	SalePrice float64
	Cost      float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CostEntry is one line of the append-only purchase-cost history kept on
// stock-bearing items.
type CostEntry struct {
	Date       time.Time `json:"date"`
	Quantity   float64   `json:"quantity"`
	UnitPrice  float64   `json:"unitPrice"`
	SupplierID *int64    `json:"supplierId,omitempty"`
}

type Product struct {
	ID          int64
	Name        string
	Price       float64
	Stock       float64
	LastCost    float64
	CostHistory []CostEntry
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Supply struct {
	ID          int64
	Name        string
	Unit        string
	UnitCost    float64
	Stock       float64
	CostHistory []CostEntry
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Machine struct {
	ID              int64
	Name            string
	Serial          string
	AcquisitionCost float64
	Status          MachineStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ItemRef points at a sellable catalog entry, either a Service or a Product.
type ItemRef struct {
	Kind ItemKind
	ID   int64
}

type ScheduledItem struct {
	ID        int64
	Item      ItemRef
	Qty       float64
	UnitPrice float64
}

func (it ScheduledItem) Subtotal() float64 { return it.Qty * it.UnitPrice }

type ScheduledSupply struct {
	SupplyID int64
	Qty      float64
}

type Appointment struct {
	ID         int64
	Start      time.Time
	End        time.Time
	Status     AppointmentStatus
	EmployeeID int64
	ClientID   int64
	Items      []ScheduledItem
	MachineIDs []int64
	Supplies   []ScheduledSupply
	Total      float64
	Comment    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type SaleItem struct {
	ID        int64
	Item      ItemRef
	Qty       float64
	UnitPrice float64
}

func (it SaleItem) Subtotal() float64 { return it.Qty * it.UnitPrice }

type Sale struct {
	ID            int64
	Code          string
	Date          time.Time
	EmployeeID    int64
	ClientID      int64
	AppointmentID *int64
	Items         []SaleItem
	Total         float64
	Comment       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PurchaseItemRef identifies what a purchase expense bought. Kind "other"
// carries only the free-text description.
type PurchaseItemRef struct {
	Kind        PurchaseItemKind
	ID          *int64
	Description string
}

// Expense is the closed set of ledger entries. Kind selects which of the
// optional field groups is populated.
type Expense struct {
	ID      int64
	Kind    ExpenseKind
	Date    time.Time
	Total   float64
	Comment string

	// purchase
	SupplierID *int64
	Item       *PurchaseItemRef
	Quantity   *float64
	UnitPrice  *float64

	// fixed_third_party / other
	Label string

	// salary
	EmployeeID  *int64
	GrossSalary *float64
	Deductions  *float64

	// commission
	ServiceRevenue *float64
	ProductRevenue *float64
	ServiceRate    *float64
	ProductRate    *float64

	CreatedAt time.Time
}

// Overlaps reports whether the appointment's window intersects [start, end).
// Touching windows (end == start) do not overlap.
func (a Appointment) Overlaps(start, end time.Time) bool {
	return a.Start.Before(end) && a.End.After(start)
}

// UsesMachine reports whether the machine is in the appointment's machine set.
func (a Appointment) UsesMachine(machineID int64) bool {
	for _, id := range a.MachineIDs {
		if id == machineID {
			return true
		}
	}
	return false
}
