package enums

import "fmt"

// ShipmentStatus is the lifecycle column on shipments.
type ShipmentStatus string

const (
	ShipmentStatusPending   ShipmentStatus = "pending"
	ShipmentStatusShipped   ShipmentStatus = "shipped"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
)

var validShipmentStatuses = []ShipmentStatus{
	ShipmentStatusPending,
	ShipmentStatusShipped,
	ShipmentStatusDelivered,
}

func (s ShipmentStatus) String() string {
	return string(s)
}

func (s ShipmentStatus) IsValid() bool {
	for _, candidate := range validShipmentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseShipmentStatus(value string) (ShipmentStatus, error) {
	for _, candidate := range validShipmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipment status %q", value)
}
