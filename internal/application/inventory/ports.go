package inventory

import (
	"context"

	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Products       repository.ProductRepository
	Batches        repository.StockBatchRepository
	Changes        repository.StockChangeRepository
	Transfers      repository.StockTransferRepository
	Replenishments repository.ReplenishmentRepository
	Sales          repository.SaleRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza el contrato todo-o-nada del motor: un plan multi-lote
// se aplica completo o no se aplica.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
