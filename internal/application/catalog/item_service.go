package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentalworks/backend/internal/domain/catalog"
	"github.com/rentalworks/backend/internal/domain/shared"
)

// ItemService handles master item and sub-item business operations
type ItemService struct {
	masterRepo catalog.MasterItemRepository
	subRepo    catalog.SubItemRepository
}

// NewItemService creates a new ItemService
func NewItemService(masterRepo catalog.MasterItemRepository, subRepo catalog.SubItemRepository) *ItemService {
	return &ItemService{
		masterRepo: masterRepo,
		subRepo:    subRepo,
	}
}

// CreateMaster creates a new master item
func (s *ItemService) CreateMaster(ctx context.Context, req CreateMasterItemRequest) (*MasterItemResponse, error) {
	exists, err := s.masterRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "A master item with this code already exists")
	}

	item, err := catalog.NewMasterItem(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if req.Category != "" {
		if err := item.Update(item.Name, req.Category); err != nil {
			return nil, err
		}
	}
	if req.ImageURL != "" {
		item.SetImage(req.ImageURL)
	}

	if err := s.masterRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	response := ToMasterItemResponse(item, 0)
	return &response, nil
}

// GetMasterByID retrieves a master item by ID
func (s *ItemService) GetMasterByID(ctx context.Context, id uuid.UUID) (*MasterItemResponse, error) {
	item, err := s.masterRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.subRepo.CountByMasterItem(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToMasterItemResponse(item, count)
	return &response, nil
}

// ListMasters retrieves master items with filtering and pagination
func (s *ItemService) ListMasters(ctx context.Context, filter ItemListFilter) ([]MasterItemResponse, int64, error) {
	domainFilter := buildItemFilter(filter)

	items, err := s.masterRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.masterRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]MasterItemResponse, len(items))
	for i := range items {
		count, err := s.subRepo.CountByMasterItem(ctx, items[i].ID)
		if err != nil {
			return nil, 0, err
		}
		responses[i] = ToMasterItemResponse(&items[i], count)
	}

	return responses, total, nil
}

// UpdateMaster updates a master item
func (s *ItemService) UpdateMaster(ctx context.Context, id uuid.UUID, req UpdateMasterItemRequest) (*MasterItemResponse, error) {
	item, err := s.masterRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := item.Name
	category := item.Category
	if req.Name != nil {
		name = *req.Name
	}
	if req.Category != nil {
		category = *req.Category
	}
	if err := item.Update(name, category); err != nil {
		return nil, err
	}
	if req.ImageURL != nil {
		item.SetImage(*req.ImageURL)
	}

	if err := s.masterRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	count, err := s.subRepo.CountByMasterItem(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToMasterItemResponse(item, count)
	return &response, nil
}

// DeleteMaster deletes a master item. It refuses to delete a master that
// still has sub-items under it.
func (s *ItemService) DeleteMaster(ctx context.Context, id uuid.UUID) error {
	count, err := s.subRepo.CountByMasterItem(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("MASTER_IN_USE", "Master item still has sub-items; delete them first")
	}

	return s.masterRepo.Delete(ctx, id)
}

// CreateSub creates a new sub-item under a master item. The sub-item code
// is derived from the master's code and the next per-master sequence.
func (s *ItemService) CreateSub(ctx context.Context, req CreateSubItemRequest) (*SubItemResponse, error) {
	master, err := s.masterRepo.FindByID(ctx, req.MasterItemID)
	if err != nil {
		return nil, err
	}

	seq, err := s.subRepo.NextSequence(ctx, master.ID)
	if err != nil {
		return nil, err
	}

	item, err := catalog.NewSubItem(master, seq, req.Name, req.RentRate)
	if err != nil {
		return nil, err
	}
	item.Description = req.Description
	if req.ImageURL != "" {
		item.SetImage(req.ImageURL)
	}

	if err := s.subRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	response := ToSubItemResponse(item)
	return &response, nil
}

// GetSubByID retrieves a sub-item by ID
func (s *ItemService) GetSubByID(ctx context.Context, id uuid.UUID) (*SubItemResponse, error) {
	item, err := s.subRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSubItemResponse(item)
	return &response, nil
}

// ListSubs retrieves sub-items with filtering and pagination
func (s *ItemService) ListSubs(ctx context.Context, filter ItemListFilter) ([]SubItemResponse, int64, error) {
	domainFilter := buildItemFilter(filter)

	items, err := s.subRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.subRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToSubItemResponses(items), total, nil
}

// ListSubsByMaster retrieves all sub-items under a master item
func (s *ItemService) ListSubsByMaster(ctx context.Context, masterItemID uuid.UUID, filter ItemListFilter) ([]SubItemResponse, error) {
	items, err := s.subRepo.FindByMasterItem(ctx, masterItemID, buildItemFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToSubItemResponses(items), nil
}

// UpdateSub updates a sub-item
func (s *ItemService) UpdateSub(ctx context.Context, id uuid.UUID, req UpdateSubItemRequest) (*SubItemResponse, error) {
	item, err := s.subRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := item.Name
	description := item.Description
	rentRate := item.RentRate
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.RentRate != nil {
		rentRate = *req.RentRate
	}
	if err := item.Update(name, description, rentRate); err != nil {
		return nil, err
	}
	if req.ImageURL != nil {
		item.SetImage(*req.ImageURL)
	}
	if req.Status != nil {
		if err := item.SetStatus(catalog.ItemStatus(*req.Status)); err != nil {
			return nil, err
		}
	}

	if err := s.subRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	response := ToSubItemResponse(item)
	return &response, nil
}

// DeleteSub deletes a sub-item
func (s *ItemService) DeleteSub(ctx context.Context, id uuid.UUID) error {
	return s.subRepo.Delete(ctx, id)
}

// UpdateStatus updates the status of one or more sub-items in bulk
func (s *ItemService) UpdateStatus(ctx context.Context, req UpdateItemStatusRequest) error {
	status := catalog.ItemStatus(req.Status)
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Invalid item status: "+req.Status)
	}
	if len(req.SubItemIDs) == 0 {
		return nil
	}

	return s.subRepo.UpdateStatusBulk(ctx, req.SubItemIDs, status)
}

func buildItemFilter(filter ItemListFilter) shared.Filter {
	domainFilter := shared.NewFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	return domainFilter
}
