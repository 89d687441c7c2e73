package household

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/izawa-yuka/uruoi/pkg/common"
	"github.com/izawa-yuka/uruoi/pkg/models"
)

func containerLogger() *zap.Logger {
	return common.GetLoggerWith(
		common.LoggerNameHouseholdCore,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryContainer),
	)
}

func (h *Household) addContainer(name string, emptyWeight float64) (*models.Container, error) {
	logger := containerLogger()

	var maxOrder int
	err := h.Db.Conn.Model(&models.Container{}).
		Select("COALESCE(MAX(sort_order), -1)").
		Scan(&maxOrder).Error
	if err != nil {
		return nil, err
	}

	container := &models.Container{
		ID:          uuid.NewString(),
		Name:        name,
		EmptyWeight: emptyWeight,
		CreatedAt:   time.Now(),
		SortOrder:   maxOrder + 1,
	}

	if !container.IsValid() {
		return nil, fmt.Errorf("invalid container: %s", strings.Join(container.ValidationErrors(), "; "))
	}

	if err := h.Db.Conn.Create(container).Error; err != nil {
		return nil, err
	}

	logger.Info("Added container", zap.Reflect("container", container))

	h.syncContainer(container)
	return container, nil
}

func (h *Household) updateContainer(id string, name string, emptyWeight float64) (*models.Container, error) {
	logger := containerLogger()

	var container models.Container
	if err := h.Db.Conn.First(&container, "id = ?", id).Error; err != nil {
		return nil, err
	}

	container.Name = name
	container.EmptyWeight = emptyWeight

	if !container.IsValid() {
		return nil, fmt.Errorf("invalid container: %s", strings.Join(container.ValidationErrors(), "; "))
	}

	if err := h.Db.Conn.Save(&container).Error; err != nil {
		return nil, err
	}

	logger.Info("Updated container", zap.Reflect("container", container))

	h.syncContainer(&container)
	return &container, nil
}

// reorderContainers assigns sort orders following the given id order. Ids not
// listed keep their current order value.
func (h *Household) reorderContainers(orderedIDs []string) error {
	logger := containerLogger()

	var containers []models.Container
	err := h.Db.Conn.Transaction(func(tx *gorm.DB) error {
		for order, id := range orderedIDs {
			var container models.Container
			if err := tx.First(&container, "id = ?", id).Error; err != nil {
				return err
			}
			container.SortOrder = order
			if err := tx.Save(&container).Error; err != nil {
				return err
			}
			containers = append(containers, container)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Reordered containers", zap.Int("count", len(containers)))

	for i := range containers {
		h.syncContainer(&containers[i])
	}
	return nil
}

// archiveContainer soft deletes: the container disappears from active lists
// but its records stay linked. Synced as an upsert, not a remote delete.
func (h *Household) archiveContainer(id string) error {
	logger := containerLogger()

	var container models.Container
	if err := h.Db.Conn.First(&container, "id = ?", id).Error; err != nil {
		return err
	}

	container.IsArchived = true
	if err := h.Db.Conn.Save(&container).Error; err != nil {
		return err
	}

	logger.Info("Archived container", zap.String("container_id", id))

	h.syncContainer(&container)
	return nil
}

func (h *Household) deleteContainer(id string) error {
	logger := containerLogger()

	var container models.Container
	if err := h.Db.Conn.First(&container, "id = ?", id).Error; err != nil {
		return err
	}

	// cascade removes the container's records locally
	if err := h.Db.Conn.Delete(&container).Error; err != nil {
		return err
	}

	logger.Info("Deleted container", zap.String("container_id", id))

	h.syncContainerDelete(id)
	return nil
}

func (h *Household) listActiveContainers() ([]models.Container, error) {
	var containers []models.Container
	err := h.Db.Conn.
		Where("is_archived = ?", false).
		Order("sort_order asc").
		Find(&containers).Error
	return containers, err
}

type IContainerImpl struct {
	household *Household
}

func (ic *IContainerImpl) AddContainer(name string, emptyWeight float64) (*models.Container, error) {
	return ic.household.addContainer(name, emptyWeight)
}

func (ic *IContainerImpl) UpdateContainer(id string, name string, emptyWeight float64) (*models.Container, error) {
	return ic.household.updateContainer(id, name, emptyWeight)
}

func (ic *IContainerImpl) ReorderContainers(orderedIDs []string) error {
	return ic.household.reorderContainers(orderedIDs)
}

func (ic *IContainerImpl) ArchiveContainer(id string) error {
	return ic.household.archiveContainer(id)
}

func (ic *IContainerImpl) DeleteContainer(id string) error {
	return ic.household.deleteContainer(id)
}

func (ic *IContainerImpl) ListActiveContainers() ([]models.Container, error) {
	return ic.household.listActiveContainers()
}

func (h *Household) GetIContainer() IContainer {
	return &IContainerImpl{household: h}
}
