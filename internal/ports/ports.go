package ports

import (
	"context"
	"time"

	"salonops-backend/internal/domain"
)

// HealthChecker is used to probe dependencies.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// AppointmentFilter narrows List results. From/To bound the start date
// inclusively; the pointer fields are equality filters.
type AppointmentFilter struct {
	From       *time.Time
	To         *time.Time
	EmployeeID *int64
	ClientID   *int64
	Status     *domain.AppointmentStatus
}

type AppointmentStore interface {
	Create(ctx context.Context, a domain.Appointment) (*domain.Appointment, error)
	Get(ctx context.Context, id int64) (*domain.Appointment, error)
	// Update replaces the stored record, line entries included.
	Update(ctx context.Context, a domain.Appointment) (*domain.Appointment, error)
	Delete(ctx context.Context, id int64) error
	// List returns appointments matching the filter ordered by start time
	// descending.
	List(ctx context.Context, f AppointmentFilter) ([]domain.Appointment, error)
	// Overlapping returns every appointment whose window intersects
	// [start, end), excluding excludeID. Touching windows do not count.
	Overlapping(ctx context.Context, start, end time.Time, excludeID int64) ([]domain.Appointment, error)
}

type SaleFilter struct {
	From       *time.Time
	To         *time.Time
	EmployeeID *int64
	ClientID   *int64
}

type SaleStore interface {
	Create(ctx context.Context, s domain.Sale) (*domain.Sale, error)
	Get(ctx context.Context, id int64) (*domain.Sale, error)
	Update(ctx context.Context, s domain.Sale) (*domain.Sale, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f SaleFilter) ([]domain.Sale, error)
	ExistsForAppointment(ctx context.Context, appointmentID int64) (bool, error)
}

// ExpenseFilter requires a date range; the rest narrows further.
type ExpenseFilter struct {
	From       time.Time
	To         time.Time
	Kinds      []domain.ExpenseKind
	SupplierID *int64
	EmployeeID *int64
	Item       *domain.PurchaseItemRef
	Comment    string
}

type ExpenseStore interface {
	Create(ctx context.Context, e domain.Expense) (*domain.Expense, error)
	Get(ctx context.Context, id int64) (*domain.Expense, error)
	Update(ctx context.Context, e domain.Expense) (*domain.Expense, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ExpenseFilter) ([]domain.Expense, error)
}

type ProductStore interface {
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	GetByName(ctx context.Context, name string) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Product, error)
	// AdjustStock adds delta to the stock quantity, failing with an
	// insufficient-stock error if the result would be negative.
	AdjustStock(ctx context.Context, id int64, delta float64) error
	// RecordPurchase appends a cost-history entry and overwrites the last
	// purchase cost.
	RecordPurchase(ctx context.Context, id int64, entry domain.CostEntry) error
}

type SupplyStore interface {
	Create(ctx context.Context, s domain.Supply) (*domain.Supply, error)
	Get(ctx context.Context, id int64) (*domain.Supply, error)
	GetByName(ctx context.Context, name string) (*domain.Supply, error)
	Update(ctx context.Context, s domain.Supply) (*domain.Supply, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Supply, error)
	AdjustStock(ctx context.Context, id int64, delta float64) error
	RecordPurchase(ctx context.Context, id int64, entry domain.CostEntry) error
}

type ServiceStore interface {
	Create(ctx context.Context, s domain.Service) (*domain.Service, error)
	Get(ctx context.Context, id int64) (*domain.Service, error)
	GetByName(ctx context.Context, name string) (*domain.Service, error)
	Update(ctx context.Context, s domain.Service) (*domain.Service, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Service, error)
}

type MachineStore interface {
	Create(ctx context.Context, m domain.Machine) (*domain.Machine, error)
	Get(ctx context.Context, id int64) (*domain.Machine, error)
	GetBySerial(ctx context.Context, serial string) (*domain.Machine, error)
	Update(ctx context.Context, m domain.Machine) (*domain.Machine, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Machine, error)
}

type EmployeeStore interface {
	Create(ctx context.Context, e domain.Employee) (*domain.Employee, error)
	Get(ctx context.Context, id int64) (*domain.Employee, error)
	GetByCPF(ctx context.Context, cpf string) (*domain.Employee, error)
	Update(ctx context.Context, e domain.Employee) (*domain.Employee, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Employee, error)
}

type ClientStore interface {
	Create(ctx context.Context, c domain.Client) (*domain.Client, error)
	Get(ctx context.Context, id int64) (*domain.Client, error)
	GetByCPF(ctx context.Context, cpf string) (*domain.Client, error)
	Update(ctx context.Context, c domain.Client) (*domain.Client, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Client, error)
}

type SupplierStore interface {
	Create(ctx context.Context, s domain.Supplier) (*domain.Supplier, error)
	Get(ctx context.Context, id int64) (*domain.Supplier, error)
	GetByCNPJ(ctx context.Context, cnpj string) (*domain.Supplier, error)
	Update(ctx context.Context, s domain.Supplier) (*domain.Supplier, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Supplier, error)
}

// Stores bundles every store so wiring can swap persistence strategies in
// one place.
type Stores struct {
	Appointments AppointmentStore
	Sales        SaleStore
	Expenses     ExpenseStore
	Products     ProductStore
	Supplies     SupplyStore
	Services     ServiceStore
	Machines     MachineStore
	Employees    EmployeeStore
	Clients      ClientStore
	Suppliers    SupplierStore
}
