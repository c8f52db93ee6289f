package models

import "time"

type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	BestScore    int       `json:"bestScore"`
	TotalGames   int       `json:"totalGames"`
	CreatedAt    time.Time `json:"createdAt"`
}
