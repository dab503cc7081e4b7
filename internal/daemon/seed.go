package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoUserAdmin/GoUserAdmin/internal/db/models"
)

// baselinePermissions are created on first start so that new groups can be
// assigned a permission right away.
var baselinePermissions = []string{"Read", "Write", "Admin"}

func seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Permission{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	log.Info().Msg("empty permission table, seeding baseline permissions")

	for _, name := range baselinePermissions {
		if err := db.Create(&models.Permission{Name: name}).Error; err != nil {
			return err
		}
	}

	return nil
}
