package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"argus/internal/domain/models"
)

func TestClassifierClassify(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name      string
		perm      string
		dangerous bool
		category  models.PermissionCategory
	}{
		{"camera", "android.permission.CAMERA", true, models.PermissionCategoryCamera},
		{"microphone", "android.permission.RECORD_AUDIO", true, models.PermissionCategoryMicrophone},
		{"fine location", "android.permission.ACCESS_FINE_LOCATION", true, models.PermissionCategoryLocation},
		{"read sms", "android.permission.READ_SMS", true, models.PermissionCategorySMS},
		{"internet is not dangerous", "android.permission.INTERNET", false, models.PermissionCategoryOther},
		{"vibrate is not dangerous", "android.permission.VIBRATE", false, models.PermissionCategoryOther},
		{"case insensitive", "android.permission.camera", true, models.PermissionCategoryCamera},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := c.Classify(tt.perm)
			assert.Equal(t, tt.dangerous, info.Dangerous)
			assert.Equal(t, tt.category, info.Category)
		})
	}
}

func TestClassifierBackgroundLocationBeatsFineLocation(t *testing.T) {
	c := NewClassifier()

	info := c.Classify("android.permission.ACCESS_BACKGROUND_LOCATION")
	require.True(t, info.Dangerous)
	assert.Equal(t, "Background Location", info.FriendlyName)
}

func TestClassifierClassifyAll(t *testing.T) {
	c := NewClassifier()

	perms := []string{
		"android.permission.CAMERA",
		"android.permission.INTERNET",
		"android.permission.READ_CONTACTS",
	}
	infos, dangerous := c.ClassifyAll(perms)

	require.Len(t, infos, 3)
	assert.Equal(t, []string{
		"android.permission.CAMERA",
		"android.permission.READ_CONTACTS",
	}, dangerous)
}

func TestClassifierIsCritical(t *testing.T) {
	c := NewClassifier()

	assert.True(t, c.IsCritical("android.permission.CAMERA"))
	assert.True(t, c.IsCritical("android.permission.SEND_SMS"))
	assert.False(t, c.IsCritical("android.permission.READ_PHONE_STATE"))
	assert.False(t, c.IsCritical("android.permission.INTERNET"))
}

func TestClassifierCategories(t *testing.T) {
	c := NewClassifier()

	cats := c.Categories([]string{
		"android.permission.CAMERA",
		"android.permission.RECORD_AUDIO",
		"android.permission.INTERNET",
	})

	assert.True(t, cats[models.PermissionCategoryCamera])
	assert.True(t, cats[models.PermissionCategoryMicrophone])
	// Non-dangerous permissions contribute no category
	assert.False(t, cats[models.PermissionCategoryNetwork])
}

func TestFriendlyFromIdentifier(t *testing.T) {
	assert.Equal(t, "Vibrate", friendlyFromIdentifier("android.permission.VIBRATE"))
	assert.Equal(t, "Nfc Transaction Event", friendlyFromIdentifier("android.permission.NFC_TRANSACTION_EVENT"))
	assert.Equal(t, "Custom", friendlyFromIdentifier("CUSTOM"))
}
