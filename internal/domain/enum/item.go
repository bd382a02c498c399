package enum

// ItemType classifies a catalog entry
type ItemType string

const (
	ItemTypeService  ItemType = "service"
	ItemTypeGiftCard ItemType = "gift_card"
	ItemTypePackage  ItemType = "package"
	ItemTypeProduct  ItemType = "product"
)

// ItemStatus marks whether a catalog entry is bookable
type ItemStatus string

const (
	ItemStatusActive   ItemStatus = "active"
	ItemStatusInactive ItemStatus = "inactive"
)
