package household

import (
	"time"

	"github.com/izawa-yuka/uruoi/pkg/common"
	"github.com/izawa-yuka/uruoi/pkg/models"
)

// weeklyAveragePerCat is the average daily intake per cat over the past seven
// days, from finished records only. Active records contribute nothing until
// they are collected, so the figure stays correct while sessions are open or
// remote mutations are still converging.
func (h *Household) weeklyAveragePerCat(now time.Time, catCount int) (float64, error) {
	if catCount <= 0 {
		return 0, nil
	}

	sevenDaysAgo := now.AddDate(0, 0, -7)

	var records []models.WaterRecord
	err := h.Db.Conn.
		Where("end_time IS NOT NULL AND start_time >= ?", sevenDaysAgo).
		Find(&records).Error
	if err != nil {
		return 0, err
	}

	total := common.Reducer(records, func(acc float64, r models.WaterRecord) float64 {
		if amount := r.Amount(); amount != nil {
			return acc + *amount
		}
		return acc
	}, 0.0)

	return total / 7.0 / float64(catCount), nil
}

// todayTotalPerCat is today's total intake per cat, from finished records
// started since local midnight.
func (h *Household) todayTotalPerCat(now time.Time, catCount int) (float64, error) {
	if catCount <= 0 {
		return 0, nil
	}

	year, month, day := now.Date()
	todayStart := time.Date(year, month, day, 0, 0, 0, 0, now.Location())

	var records []models.WaterRecord
	err := h.Db.Conn.
		Where("end_time IS NOT NULL AND start_time >= ? AND start_time <= ?", todayStart, now).
		Find(&records).Error
	if err != nil {
		return 0, err
	}

	total := common.Reducer(records, func(acc float64, r models.WaterRecord) float64 {
		if amount := r.Amount(); amount != nil {
			return acc + *amount
		}
		return acc
	}, 0.0)

	return total / float64(catCount), nil
}
