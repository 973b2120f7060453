package entity

type User struct {
	Base
	Name                      string  `db:"name"`
	Email                     string  `db:"email"`
	PasswordHash              string  `db:"password"`
	Phone                     string  `db:"phone"`
	IsDriver                  bool    `db:"is_driver"`
	Rating                    float64 `db:"rating"`
	CompletedRidesAsDriver    int     `db:"completed_rides_as_driver"`
	CompletedRidesAsPassenger int     `db:"completed_rides_as_passenger"`
	EmailVerified             bool    `db:"email_verified"`
	VerificationAttempts      int     `db:"verification_attempts"`
}
