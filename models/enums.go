package models

import (
	"encoding/json"
	"errors"
)

type InventoryEntryType string

const (
	InventoryEntryTypeProduction InventoryEntryType = "Production"
	InventoryEntryTypePurchase   InventoryEntryType = "Purchase"
	InventoryEntryTypeReturn     InventoryEntryType = "Return"
	InventoryEntryTypeAdjustment InventoryEntryType = "Adjustment"
	InventoryEntryTypeTransfer   InventoryEntryType = "Transfer"
	InventoryEntryTypeInitial    InventoryEntryType = "Initial"
)

// convert input to enum type
func (t *InventoryEntryType) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("entry type must be string")
	}
	entryTypes := map[string]InventoryEntryType{
		"Production": InventoryEntryTypeProduction,
		"Purchase":   InventoryEntryTypePurchase,
		"Return":     InventoryEntryTypeReturn,
		"Adjustment": InventoryEntryTypeAdjustment,
		"Transfer":   InventoryEntryTypeTransfer,
		"Initial":    InventoryEntryTypeInitial,
	}
	v, ok := entryTypes[str]
	if !ok {
		return errors.New("invalid entry type")
	}
	*t = v
	return nil
}

// entryNumberPrefixes maps entry types to the document-number prefix.
var entryNumberPrefixes = map[InventoryEntryType]string{
	InventoryEntryTypeProduction: "PRD",
	InventoryEntryTypePurchase:   "PUR",
	InventoryEntryTypeReturn:     "RET",
	InventoryEntryTypeAdjustment: "ADJ",
	InventoryEntryTypeTransfer:   "TRF",
	InventoryEntryTypeInitial:    "INI",
}

type InventoryEntryStatus string

const (
	InventoryEntryStatusDraft     InventoryEntryStatus = "Draft"
	InventoryEntryStatusPending   InventoryEntryStatus = "Pending"
	InventoryEntryStatusApproved  InventoryEntryStatus = "Approved"
	InventoryEntryStatusCompleted InventoryEntryStatus = "Completed"
	InventoryEntryStatusCancelled InventoryEntryStatus = "Cancelled"
)

func (s *InventoryEntryStatus) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("entry status must be string")
	}
	entryStatuses := map[string]InventoryEntryStatus{
		"Draft":     InventoryEntryStatusDraft,
		"Pending":   InventoryEntryStatusPending,
		"Approved":  InventoryEntryStatusApproved,
		"Completed": InventoryEntryStatusCompleted,
		"Cancelled": InventoryEntryStatusCancelled,
	}
	v, ok := entryStatuses[str]
	if !ok {
		return errors.New("invalid entry status")
	}
	*s = v
	return nil
}

// IsTerminal reports whether no transition may leave the status.
func (s InventoryEntryStatus) IsTerminal() bool {
	return s == InventoryEntryStatusCompleted || s == InventoryEntryStatusCancelled
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

func (s *OrderStatus) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("order status must be string")
	}
	orderStatuses := map[string]OrderStatus{
		"Pending":   OrderStatusPending,
		"Confirmed": OrderStatusConfirmed,
		"Delivered": OrderStatusDelivered,
		"Cancelled": OrderStatusCancelled,
	}
	v, ok := orderStatuses[str]
	if !ok {
		return errors.New("invalid order status")
	}
	*s = v
	return nil
}

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "Draft"
	InvoiceStatusIssued    InvoiceStatus = "Issued"
	InvoiceStatusPaid      InvoiceStatus = "Paid"
	InvoiceStatusCancelled InvoiceStatus = "Cancelled"
)

func (s *InvoiceStatus) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("invoice status must be string")
	}
	invoiceStatuses := map[string]InvoiceStatus{
		"Draft":     InvoiceStatusDraft,
		"Issued":    InvoiceStatusIssued,
		"Paid":      InvoiceStatusPaid,
		"Cancelled": InvoiceStatusCancelled,
	}
	v, ok := invoiceStatuses[str]
	if !ok {
		return errors.New("invalid invoice status")
	}
	*s = v
	return nil
}

type UserRole string

const (
	UserRoleEmployee   UserRole = "Employee"
	UserRoleSales      UserRole = "Sales"
	UserRoleDriver     UserRole = "Driver"
	UserRoleSupervisor UserRole = "Supervisor"
	UserRoleManager    UserRole = "Manager"
	UserRoleAdmin      UserRole = "Admin"
)

func (r *UserRole) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errors.New("user role must be string")
	}
	userRoles := map[string]UserRole{
		"Employee":   UserRoleEmployee,
		"Sales":      UserRoleSales,
		"Driver":     UserRoleDriver,
		"Supervisor": UserRoleSupervisor,
		"Manager":    UserRoleManager,
		"Admin":      UserRoleAdmin,
	}
	v, ok := userRoles[str]
	if !ok {
		return errors.New("invalid user role")
	}
	*r = v
	return nil
}
