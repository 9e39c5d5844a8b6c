package groups

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/hugh/linkstash/internal/apperr"
	"github.com/hugh/linkstash/internal/database/models"
	"gorm.io/gorm"
)

type Service struct {
	db          *gorm.DB
	guestDomain string
}

func NewService(db *gorm.DB, guestDomain string) *Service {
	return &Service{db: db, guestDomain: guestDomain}
}

// countSelect annotates each group with the bookmarks a viewer sees filed
// there: the owner's directly filed bookmarks, foreign bookmarks the viewer
// filed via an override, and guest-owned bookmarks that default into the
// group because the viewer never overrode them.
const countSelect = `groups.*,
	(SELECT COUNT(*) FROM bookmarks b
		WHERE b.group_id = groups.id AND b.owner_id = ?)
	+ (SELECT COUNT(*) FROM bookmark_overrides o
		JOIN bookmarks b2 ON o.bookmark_id = b2.id
		WHERE o.group_id = groups.id AND o.user_id = ?)
	+ (SELECT COUNT(*) FROM bookmarks b3
		JOIN users u ON b3.owner_id = u.id
		WHERE b3.group_id = groups.id AND b3.owner_id <> ?
		AND (u.is_guest OR u.email LIKE ?)
		AND NOT EXISTS (SELECT 1 FROM bookmark_overrides o2
			WHERE o2.bookmark_id = b3.id AND o2.user_id = ?)
	) AS bookmark_count`

func (s *Service) annotated(ctx context.Context, ownerID uuid.UUID) ([]*Node, error) {
	var nodes []*Node
	err := s.db.WithContext(ctx).
		Model(&models.Group{}).
		Select(countSelect,
			ownerID, ownerID, ownerID, "%@"+s.guestDomain, ownerID).
		Where("groups.owner_id = ?", ownerID).
		Order("groups.sort_order ASC, LOWER(groups.name) ASC").
		Scan(&nodes).Error
	if err != nil {
		return nil, apperr.Internal("failed to load groups", err)
	}
	return nodes, nil
}

// Tree returns the owner's groups as an ordered forest with counts rolled up
// bottom-up. Counts are recomputed from current rows on every call.
func (s *Service) Tree(ctx context.Context, ownerID uuid.UUID) ([]*Node, error) {
	nodes, err := s.annotated(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	forest := BuildForest(nodes)
	RollUpCounts(forest)
	if forest == nil {
		forest = []*Node{}
	}
	return forest, nil
}

// Flat returns the owner's groups as a flat ordered list with direct counts.
func (s *Service) Flat(ctx context.Context, ownerID uuid.UUID) ([]*Node, error) {
	nodes, err := s.annotated(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if nodes == nil {
		nodes = []*Node{}
	}
	return nodes, nil
}

// DescendantIDs expands groupID to itself plus all transitive children owned
// by ownerID. Used by the bookmark query planner so a group filter includes
// sub-groups.
func (s *Service) DescendantIDs(ctx context.Context, ownerID, groupID uuid.UUID) ([]uuid.UUID, error) {
	var all []models.Group
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Find(&all).Error; err != nil {
		return nil, apperr.Internal("failed to load groups", err)
	}
	return ExpandDescendants(groupID, all), nil
}

type CreateInput struct {
	Name     string
	ParentID *uuid.UUID
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, input CreateInput) (*models.Group, error) {
	if input.Name == "" {
		return nil, apperr.Validation("group name is required")
	}

	if input.ParentID != nil {
		var parent models.Group
		if err := s.db.WithContext(ctx).
			Where("id = ? AND owner_id = ?", *input.ParentID, ownerID).
			First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("parent group not found")
			}
			return nil, apperr.Internal("failed to look up parent group", err)
		}
	}

	group := models.Group{
		Name:     input.Name,
		ParentID: input.ParentID,
		OwnerID:  ownerID,
	}
	if err := s.db.WithContext(ctx).Create(&group).Error; err != nil {
		return nil, apperr.Internal("failed to create group", err)
	}
	return &group, nil
}

type UpdateInput struct {
	Name      string
	ParentID  *uuid.UUID
	ParentSet bool // false keeps the current parent; true with nil ParentID moves to root
}

// Update renames and/or reparents a group. The new parent must be owned by
// the same user and must not be the group itself or any of its descendants;
// the full ancestor-chain walk also rejects multi-hop cycles (A -> B -> A).
func (s *Service) Update(ctx context.Context, ownerID, groupID uuid.UUID, input UpdateInput) (*models.Group, error) {
	var group models.Group
	if err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", groupID, ownerID).
		First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("group not found")
		}
		return nil, apperr.Internal("failed to look up group", err)
	}

	if input.ParentSet && input.ParentID != nil {
		if *input.ParentID == groupID {
			return nil, apperr.Conflict("a group cannot be its own parent")
		}
		var parent models.Group
		if err := s.db.WithContext(ctx).
			Where("id = ? AND owner_id = ?", *input.ParentID, ownerID).
			First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("parent group not found")
			}
			return nil, apperr.Internal("failed to look up parent group", err)
		}
		if err := s.ensureNoCycle(ctx, ownerID, groupID, *input.ParentID); err != nil {
			return nil, err
		}
	}

	if input.Name != "" {
		group.Name = input.Name
	}
	if input.ParentSet {
		group.ParentID = input.ParentID
	}

	if err := s.db.WithContext(ctx).Save(&group).Error; err != nil {
		return nil, apperr.Internal("failed to update group", err)
	}
	return &group, nil
}

// ensureNoCycle walks the ancestor chain from newParentID and rejects the
// reparent if it would make groupID its own ancestor. The walk is bounded by
// a visited set so an already-corrupt chain cannot hang it.
func (s *Service) ensureNoCycle(ctx context.Context, ownerID, groupID, newParentID uuid.UUID) error {
	var all []models.Group
	if err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Find(&all).Error; err != nil {
		return apperr.Internal("failed to load groups", err)
	}

	parents := make(map[uuid.UUID]*uuid.UUID, len(all))
	for _, g := range all {
		parents[g.ID] = g.ParentID
	}

	visited := make(map[uuid.UUID]bool)
	for cur := &newParentID; cur != nil; cur = parents[*cur] {
		if *cur == groupID {
			return apperr.Conflict("a group cannot be moved under one of its own descendants")
		}
		if visited[*cur] {
			break
		}
		visited[*cur] = true
	}
	return nil
}

// Delete removes a group, re-parenting its children to the deleted node's
// parent and moving member bookmarks to "no group". All three writes commit
// or roll back together.
func (s *Service) Delete(ctx context.Context, ownerID, groupID uuid.UUID) error {
	var group models.Group
	if err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", groupID, ownerID).
		First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("group not found")
		}
		return apperr.Internal("failed to look up group", err)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Bookmark{}).
			Where("group_id = ?", groupID).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.BookmarkOverride{}).
			Where("group_id = ?", groupID).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Group{}).
			Where("parent_id = ?", groupID).
			Update("parent_id", group.ParentID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, "id = ?", groupID).Error
	})
	if err != nil {
		return apperr.Internal("failed to delete group", err)
	}
	return nil
}
