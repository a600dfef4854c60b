package database

import "teralib-backend/models"

// ProxyStore serves the resolution service its proxy snapshot from the
// operator-editable table.
type ProxyStore struct{}

// ActiveProxies returns the enabled descriptors in fallback order
// (priority ascending, insertion order as tie-break).
func (ProxyStore) ActiveProxies() ([]models.ProxyDescriptor, error) {
	var out []models.ProxyDescriptor
	err := DB.Where("enabled = ?", true).Order("priority asc, id asc").Find(&out).Error
	return out, err
}
