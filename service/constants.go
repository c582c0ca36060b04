package service

const (
	MaxLoanAmount   = 1_000_000_000.0 // mil millones
	MaxInterestRate = 100.0           // % anual
	MaxTermYears    = 50
	MonthsPerYear   = 12

	// Límites de la cotización
	MaxScheduleMonths = MaxTermYears * MonthsPerYear

	// Plazos evaluados por defecto en la recomendación
	MaxTermCandidates = 50
)

// DefaultTermCandidates are the mortgage terms compared when the caller does
// not supply any.
var DefaultTermCandidates = []int{10, 15, 20, 25, 30}
