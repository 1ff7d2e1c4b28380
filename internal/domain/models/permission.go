package models

// PermissionCategory groups permissions by the capability they unlock
type PermissionCategory string

const (
	PermissionCategoryCamera     PermissionCategory = "camera"
	PermissionCategoryMicrophone PermissionCategory = "microphone"
	PermissionCategoryLocation   PermissionCategory = "location"
	PermissionCategoryContacts   PermissionCategory = "contacts"
	PermissionCategorySMS        PermissionCategory = "sms"
	PermissionCategoryPhone      PermissionCategory = "phone"
	PermissionCategoryCalendar   PermissionCategory = "calendar"
	PermissionCategoryStorage    PermissionCategory = "storage"
	PermissionCategorySensors    PermissionCategory = "sensors"
	PermissionCategoryNetwork    PermissionCategory = "network"
	PermissionCategoryOther      PermissionCategory = "other"
)

// PermissionInfo is the classification of one raw permission identifier.
// It is a pure function of the identifier string and is never persisted
// per app.
type PermissionInfo struct {
	Name         string             `json:"name"`
	FriendlyName string             `json:"friendly_name"`
	Category     PermissionCategory `json:"category"`
	Dangerous    bool               `json:"dangerous"`
	Description  string             `json:"description,omitempty"`
}
