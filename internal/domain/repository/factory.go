package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Accounts() AccountRepository
	Ledger() LedgerRepository
	Orders() OrderRepository
	Reservations() ReservationRepository
	Menu() MenuCatalog
	Rewards() RewardRepository
	Redemptions() RedemptionRepository
	Outbox() OutboxRepository
}
