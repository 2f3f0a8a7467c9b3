package model

import "frontdesk/shared/model"

const (
	TableName  = "guests"
	EntityName = "guest"

	FieldID       = "id"
	FieldFullName = "full_name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldIDNumber = "id_number"
	FieldAddress  = "address"
)

type Guest struct {
	ID       string `db:"id"`
	FullName string `db:"full_name"`
	Email    string `db:"email"`
	Phone    string `db:"phone"`
	IDNumber string `db:"id_number"`
	Address  string `db:"address"`
	model.Metadata
}
