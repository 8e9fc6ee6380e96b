package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Materials     repository.MaterialRepository
	Movements     repository.MaterialMovementRepository
	Products      repository.ProductRepository
	BOMLines      repository.BOMLineRepository
	PurchaseLines repository.PurchaseLineRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de kardex: Commit si fn retorna nil, Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}

// Locker serializa el acceso por clave (una materia prima = un dueño lógico).
// Lock adquiere todas las claves en orden ascendente y devuelve la función que las libera.
type Locker interface {
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}

// Claves de bloqueo.
func materialKey(id string) string { return "material:" + id }
func productKey(id string) string  { return "product:" + id }

// sortedUnique ordena y elimina duplicados; fija el orden global de bloqueo.
func sortedUnique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func materialKeys(ids []string) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = materialKey(id)
	}
	return keys
}
