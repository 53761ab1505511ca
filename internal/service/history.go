package service

import (
	"errors"
	"sync"

	"attendance-bot/internal/models"
)

// ErrNoMoreRecords сообщает, что дальше листать нечего.
var ErrNoMoreRecords = errors.New("записей больше нет")

// HistoryAPI - часть REST-клиента, нужная пейджеру истории.
type HistoryAPI interface {
	History(token, userID string, page, limit int, filters models.HistoryFilters) (*models.HistoryResponse, error)
}

// HistoryPager накапливает уже загруженные страницы истории, чтобы
// листание назад и возврат вперед не ходили в сеть повторно.
// Записи только дописываются в конец; смена фильтров сбрасывает кеш,
// потому что отфильтрованные выборки между собой несравнимы.
type HistoryPager struct {
	api      HistoryAPI
	pageSize int

	mu           sync.Mutex
	records      []models.AttendanceRecord
	currentPage  int
	totalRecords int
	hasMore      bool
	loading      bool
	filters      models.HistoryFilters
	analytics    models.Analytics
}

func NewHistoryPager(historyAPI HistoryAPI, pageSize int) *HistoryPager {
	return &HistoryPager{
		api:         historyAPI,
		pageSize:    pageSize,
		currentPage: 1,
		hasMore:     true,
	}
}

// LoadPage загружает страницу с сервера. Первая страница замещает
// кеш, последующие дописываются; страницы запрашиваются по порядку.
func (p *HistoryPager) LoadPage(token, userID string, page int) error {
	p.mu.Lock()
	filters := p.filters
	p.loading = true
	p.mu.Unlock()

	resp, err := p.api.History(token, userID, page, p.pageSize, filters)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false

	if err != nil {
		return err
	}

	newRecords := resp.History

	if page == 1 {
		p.records = append([]models.AttendanceRecord(nil), newRecords...)
	} else {
		p.records = append(p.records, newRecords...)
	}

	p.currentPage = page

	if resp.Pagination != nil {
		p.totalRecords = resp.Pagination.TotalRecords
	} else {
		p.totalRecords = 0
	}

	// hasMore от сервера авторитетен; без него сравниваем с размером страницы
	if resp.Pagination != nil && resp.Pagination.HasMore != nil {
		p.hasMore = *resp.Pagination.HasMore
	} else {
		p.hasMore = len(newRecords) == p.pageSize
	}

	if resp.Analytics != nil {
		p.analytics = *resp.Analytics
	} else {
		p.analytics = models.Analytics{}
	}

	return nil
}

// SetFilters применяет новый набор фильтров: курсор на первую
// страницу, кеш пуст, затем свежая загрузка. Повторное применение
// того же фильтра дает тот же сброс.
func (p *HistoryPager) SetFilters(token, userID string, filters models.HistoryFilters) error {
	p.mu.Lock()
	p.filters = filters
	p.currentPage = 1
	p.records = nil
	p.mu.Unlock()

	return p.LoadPage(token, userID, 1)
}

// Filters возвращает активный набор фильтров.
func (p *HistoryPager) Filters() models.HistoryFilters {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filters
}

// NextPage листает вперед: из кеша, если страница уже загружена,
// иначе с сервера, если он обещал продолжение.
func (p *HistoryPager) NextPage(token, userID string) error {
	p.mu.Lock()

	maxLoadedPage := (len(p.records) + p.pageSize - 1) / p.pageSize

	if p.currentPage < maxLoadedPage {
		p.currentPage++
		p.updateHasMoreLocked()
		p.mu.Unlock()
		return nil
	}

	if p.hasMore && !p.loading {
		next := p.currentPage + 1
		p.mu.Unlock()
		return p.LoadPage(token, userID, next)
	}

	hasMore := p.hasMore
	p.mu.Unlock()

	if !hasMore {
		return ErrNoMoreRecords
	}
	return nil
}

// PreviousPage листает назад всегда из кеша, без сети.
// На первой странице ничего не делает.
func (p *HistoryPager) PreviousPage() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.currentPage <= 1 {
		return false
	}

	p.currentPage--
	p.updateHasMoreLocked()
	return true
}

// Current - видимый срез кеша для текущей страницы.
func (p *HistoryPager) Current() []models.AttendanceRecord {
	p.mu.Lock()
	defer p.mu.Unlock()

	start := (p.currentPage - 1) * p.pageSize
	if start >= len(p.records) {
		return nil
	}

	end := start + p.pageSize
	if end > len(p.records) {
		end = len(p.records)
	}

	return p.records[start:end]
}

// All возвращает весь накопленный кеш (для экспорта).
func (p *HistoryPager) All() []models.AttendanceRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.AttendanceRecord(nil), p.records...)
}

func (p *HistoryPager) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentPage
}

func (p *HistoryPager) TotalRecords() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalRecords
}

func (p *HistoryPager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

func (p *HistoryPager) Analytics() models.Analytics {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.analytics
}

// updateHasMoreLocked пересчитывает hasMore после листания по кешу:
// впереди есть либо уже загруженные страницы, либо записи на сервере.
func (p *HistoryPager) updateHasMoreLocked() {
	maxLoadedPage := (len(p.records) + p.pageSize - 1) / p.pageSize
	totalPages := (p.totalRecords + p.pageSize - 1) / p.pageSize
	p.hasMore = p.currentPage < maxLoadedPage || p.currentPage < totalPages
}
