// Package models contains the GORM persistence models of the bookkeeping tables.
// The tables keep their Portuguese names (empresas, usuarios, vendas, receitas,
// despesas, categorias); the domain layer never sees these types.
package models
