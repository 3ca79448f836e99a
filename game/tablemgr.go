package game

import (
	"errors"
	"sort"
	"sync"
)

// TableManager 管理进行中的对局
type TableManager struct {
	mu     sync.RWMutex
	tables map[string]*Table // tableID -> Table
}

// NewTableManager 创建游戏桌管理器
func NewTableManager() *TableManager {
	return &TableManager{
		tables: make(map[string]*Table),
	}
}

// Get 获取指定桌号的游戏桌
func (t *TableManager) Get(tableID string) *Table {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tables[tableID]
}

// Store 加入游戏桌，桌号重复时报错
func (t *TableManager) Store(table *Table) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.tables[table.ID()]; ok {
		return errors.New("table already exists")
	}
	t.tables[table.ID()] = table
	return nil
}

// Delete 删除指定桌号的游戏桌
func (t *TableManager) Delete(tableID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.tables, tableID)
}

// IDs 所有桌号
func (t *TableManager) IDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]string, 0, len(t.tables))
	for id := range t.tables {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
