package services

import (
	"strings"

	"argus/internal/domain/models"
)

// permissionRule maps a permission identifier substring to its
// classification. Matching is case-insensitive.
type permissionRule struct {
	substring    string
	friendlyName string
	category     models.PermissionCategory
	description  string
}

// Known dangerous permissions. Order matters: the first matching rule wins,
// so more specific substrings come before shorter ones that contain them.
var dangerousRules = []permissionRule{
	{"ACCESS_BACKGROUND_LOCATION", "Background Location", models.PermissionCategoryLocation, "Can track location even while the app is not in use"},
	{"ACCESS_FINE_LOCATION", "Precise Location", models.PermissionCategoryLocation, "Can access exact device location"},
	{"ACCESS_COARSE_LOCATION", "Approximate Location", models.PermissionCategoryLocation, "Can access approximate device location"},
	{"RECORD_AUDIO", "Microphone", models.PermissionCategoryMicrophone, "Can record audio at any time"},
	{"CAMERA", "Camera", models.PermissionCategoryCamera, "Can take pictures and record video"},
	{"READ_CONTACTS", "Read Contacts", models.PermissionCategoryContacts, "Can read the contact list"},
	{"READ_SMS", "Read SMS", models.PermissionCategorySMS, "Can read text messages"},
	{"SEND_SMS", "Send SMS", models.PermissionCategorySMS, "Can send text messages, possibly at a cost"},
	{"RECEIVE_SMS", "Receive SMS", models.PermissionCategorySMS, "Can intercept incoming text messages"},
	{"READ_CALL_LOG", "Read Call Log", models.PermissionCategoryPhone, "Can read the call history"},
	{"CALL_PHONE", "Place Calls", models.PermissionCategoryPhone, "Can place phone calls without confirmation"},
	{"READ_PHONE_STATE", "Phone State", models.PermissionCategoryPhone, "Can read device identifiers and call state"},
	{"READ_CALENDAR", "Read Calendar", models.PermissionCategoryCalendar, "Can read calendar events"},
	{"BODY_SENSORS", "Body Sensors", models.PermissionCategorySensors, "Can access health sensor data"},
	{"READ_EXTERNAL_STORAGE", "Read Storage", models.PermissionCategoryStorage, "Can read shared files on the device"},
}

// criticalSubstrings is the subset of dangerous permissions that carry a
// per-permission score penalty in the risk scorer.
var criticalSubstrings = []string{
	"CAMERA",
	"RECORD_AUDIO",
	"ACCESS_FINE_LOCATION",
	"ACCESS_BACKGROUND_LOCATION",
	"READ_CONTACTS",
	"READ_SMS",
	"SEND_SMS",
	"READ_CALL_LOG",
}

// Classifier maps raw permission identifiers to categories and danger
// flags. Classification is pure and total: unknown identifiers are simply
// not dangerous.
type Classifier struct{}

// NewClassifier creates a new permission classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the classification for a single permission identifier
func (c *Classifier) Classify(name string) models.PermissionInfo {
	upper := strings.ToUpper(name)
	for _, rule := range dangerousRules {
		if strings.Contains(upper, rule.substring) {
			return models.PermissionInfo{
				Name:         name,
				FriendlyName: rule.friendlyName,
				Category:     rule.category,
				Dangerous:    true,
				Description:  rule.description,
			}
		}
	}
	return models.PermissionInfo{
		Name:         name,
		FriendlyName: friendlyFromIdentifier(name),
		Category:     models.PermissionCategoryOther,
		Dangerous:    false,
	}
}

// ClassifyAll classifies a permission list and returns the infos alongside
// the dangerous subset
func (c *Classifier) ClassifyAll(perms []string) ([]models.PermissionInfo, []string) {
	infos := make([]models.PermissionInfo, 0, len(perms))
	var dangerous []string
	for _, p := range perms {
		info := c.Classify(p)
		infos = append(infos, info)
		if info.Dangerous {
			dangerous = append(dangerous, p)
		}
	}
	return infos, dangerous
}

// IsCritical reports whether a permission belongs to the critical subset
// used for per-permission scoring penalties
func (c *Classifier) IsCritical(name string) bool {
	upper := strings.ToUpper(name)
	for _, s := range criticalSubstrings {
		if strings.Contains(upper, s) {
			return true
		}
	}
	return false
}

// Categories present in a permission list, deduplicated
func (c *Classifier) Categories(perms []string) map[models.PermissionCategory]bool {
	out := make(map[models.PermissionCategory]bool)
	for _, p := range perms {
		info := c.Classify(p)
		if info.Dangerous {
			out[info.Category] = true
		}
	}
	return out
}

// friendlyFromIdentifier derives a readable name from the last identifier
// segment, e.g. "android.permission.VIBRATE" -> "Vibrate"
func friendlyFromIdentifier(name string) string {
	seg := name
	if i := strings.LastIndex(name, "."); i >= 0 && i+1 < len(name) {
		seg = name[i+1:]
	}
	words := strings.Split(strings.ToLower(seg), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
