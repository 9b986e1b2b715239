package repositories

// RepositoryProvider bundles the concrete repositories handed to services.
type RepositoryProvider struct {
	LedgerRepo LedgerRepositoryFacade
	BudgetRepo BudgetRepository
	ChartRepo  ChartRepository
}
