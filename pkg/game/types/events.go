package types

type ConnectPlayerEvent struct {
	ClientID string
	Username string
	// BestScore is the account best score, zero for unknown accounts
	BestScore int
}

type DisconnectPlayerEvent struct {
	ClientID string
}
