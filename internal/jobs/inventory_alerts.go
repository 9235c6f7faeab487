package jobs

import (
	"context"
	"fmt"
	"log"

	"sgspadmin/internal/models"

	"github.com/google/uuid"
)

// LowStockSource lists the products whose stock has reached their restock
// threshold.
type LowStockSource interface {
	LowStock(ctx context.Context) ([]models.LowStockItem, error)
}

type InventoryAlertService struct {
	source LowStockSource
}

type InventoryAlert struct {
	ProductID    uuid.UUID
	ProductName  string
	CurrentStock int
}

func NewInventoryAlertService(source LowStockSource) *InventoryAlertService {
	return &InventoryAlertService{source: source}
}

func (a *InventoryAlertService) CheckLowStock(ctx context.Context) ([]InventoryAlert, error) {
	items, err := a.source.LowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}

	alerts := make([]InventoryAlert, 0, len(items))
	for _, item := range items {
		stock := 0
		if item.StockQuantity != nil {
			stock = *item.StockQuantity
		}
		alerts = append(alerts, InventoryAlert{
			ProductID:    item.ProductID,
			ProductName:  item.Name,
			CurrentStock: stock,
		})
	}
	return alerts, nil
}

func (a *InventoryAlertService) LogLowStockAlerts(alerts []InventoryAlert) {
	if len(alerts) == 0 {
		log.Println("No low stock alerts to log")
		return
	}

	log.Printf("Low stock alerts: %d products need restocking", len(alerts))
	for _, alert := range alerts {
		log.Printf("- Product '%s' (%s) has %d units", alert.ProductName, alert.ProductID, alert.CurrentStock)
	}
}

// ScheduledLowStockCheck is the periodic job body.
func (a *InventoryAlertService) ScheduledLowStockCheck(ctx context.Context) error {
	alerts, err := a.CheckLowStock(ctx)
	if err != nil {
		return err
	}
	a.LogLowStockAlerts(alerts)
	return nil
}
