package apperr

// Sentinel errors for every named precondition. Codes are stable API
// surface; messages are user-facing.
var (
	// Rides
	ErrRideNotFound      = New(KindNotFound, "ride_not_found", "Ride not found")
	ErrRideUnavailable   = New(KindConflict, "ride_unavailable", "This ride is no longer available")
	ErrInvalidTransition = New(KindConflict, "invalid_transition", "Requested status change is not allowed")
	ErrNotAuthorized     = New(KindForbidden, "not_authorized", "Only the ride's driver can perform this action")
	ErrDriverRequired    = New(KindForbidden, "driver_required", "Only drivers can create rides")

	// Bookings
	ErrSelfJoinForbidden = New(KindForbidden, "self_join_forbidden", "Drivers cannot join their own rides")
	ErrNoSeatsAvailable  = New(KindConflict, "no_seats_available", "No seats available")
	ErrAlreadyBooked     = New(KindConflict, "already_booked", "You are already a passenger on this ride")
	ErrBookingNotFound   = New(KindNotFound, "booking_not_found", "Booking not found")
	ErrBookingNotOwned   = New(KindForbidden, "booking_not_owned", "This booking belongs to another passenger")
	ErrBookingNotActive  = New(KindConflict, "booking_not_active", "This booking can no longer be cancelled")
	ErrInvalidPickup     = New(KindInvalidInput, "invalid_pickup_location", "Pickup location must include coordinates and an address")

	// Users / auth
	ErrUserNotFound       = New(KindNotFound, "user_not_found", "User not found")
	ErrEmailTaken         = New(KindConflict, "email_taken", "Email is already registered")
	ErrWrongPassword      = New(KindInvalidInput, "current_password_incorrect", "Current password is incorrect")
	ErrInvalidCredentials = New(KindForbidden, "invalid_credentials", "Invalid email or password")
	ErrOTPInvalid         = New(KindInvalidInput, "otp_invalid", "Invalid or expired verification code")
	ErrOTPAttemptsMaxed   = New(KindForbidden, "otp_attempts_exceeded", "Maximum verification attempts reached")

	// Storage
	ErrStorageTimeout     = New(KindUnavailable, "storage_timeout", "Storage timed out, please try again")
	ErrStorageUnavailable = New(KindUnavailable, "storage_unavailable", "Storage is unavailable, please try again later")
)
