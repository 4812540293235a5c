package database

import (
	"log"

	"oficina-backend/internal/config"
	"oficina-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Não foi possível conectar ao banco: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Tenant{},
		&models.Reseller{},
		&models.User{},
		&models.Receivable{},
		&models.CashReceipt{},
		&models.Payable{},
		&models.Expense{},
		&models.Advance{},
		&models.CreditCard{},
		&models.CommissionRule{},
		&models.RevenueTier{},
		&models.EmployeeFixedCommission{},
		&models.EmployeeSalaryConfig{},
		&models.CommissionSnapshot{},
		&models.TenantInvoice{},
		&models.ResellerInvoice{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("Erro no AutoMigrate: %v", err)
	}

	// Chave do cache de comissão: o AutoMigrate não cria índice único com
	// COALESCE, e índice único simples não deduplica employee_id NULL
	// (modo coletivo). Criado manualmente.
	if err := DB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_commission_snapshot_key
		ON commission_snapshots (tenant_id, COALESCE(employee_id, 0), reference_month)
	`).Error; err != nil {
		log.Fatalf("Erro criando índice do cache de comissão: %v", err)
	}

	// Janela de faturas de cartão: busca frequente por (cartão, mês, tipo)
	DB.Exec(`
		CREATE INDEX IF NOT EXISTS idx_payables_card_cycle
		ON payables (card_id, reference_month)
		WHERE kind = 'CARD_INVOICE'
	`)

	log.Println("Banco conectado. Migration concluída.")
}
