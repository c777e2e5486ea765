package models

// Staff is a front of house staff credential record
type Staff struct {
	Login        string
	PasswordHash string
}

// TokenPayload is the verified content of a staff auth token
type TokenPayload struct {
	Login string
	Role  ActorRole
}
