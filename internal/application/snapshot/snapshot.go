package snapshot

import "reflect"

// Pair par {original, actual} de una entidad en edición. Reemplaza los mapas
// globales mutables de "último valor cargado": cada pantalla mantiene su par y
// lo compara estructuralmente.
type Pair[T any] struct {
	Original T
	Current  T
}

// Capture inicia el par con la entidad recién cargada: original y actual
// parten iguales.
func Capture[T any](v T) *Pair[T] {
	return &Pair[T]{Original: v, Current: v}
}

// Dirty indica si hay ediciones sin guardar (comparación estructural profunda).
func (p *Pair[T]) Dirty() bool {
	return !reflect.DeepEqual(p.Original, p.Current)
}

// Commit adopta el estado actual como nuevo original (tras guardar con éxito).
func (p *Pair[T]) Commit() { p.Original = p.Current }

// Revert descarta las ediciones y vuelve al original.
func (p *Pair[T]) Revert() { p.Current = p.Original }
