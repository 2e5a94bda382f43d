// Package domain содержит основные типы данных системы.
//
// Здесь нет бизнес-логики — только структуры, которые
// передаются между слоями (stores, workflow, CLI).
package domain
