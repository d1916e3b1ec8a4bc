package service

import (
	"encoding/json"
	"html"
	"log"
	"strings"

	"anoa.com/blogplatform/internal/model"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
)

type SearchService interface {
	IndexPost(post *model.Post) error
	DeletePost(id string) error
	SearchPosts(query string) ([]uuid.UUID, error)
}

type meiliSearchService struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

func NewMeiliSearchService(client meilisearch.ServiceManager) SearchService {
	s := &meiliSearchService{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	s.initIndexes()
	return s
}

func (s *meiliSearchService) initIndexes() {
	sortableAttrs := []string{"created_at"}
	_, err := s.client.Index("posts").UpdateSortableAttributes(&sortableAttrs)
	if err != nil {
		log.Printf("Failed to update posts sortable attributes: %v", err)
	}

	filterableAttrs := []string{"category_id", "tags"}
	filterableInterface := make([]any, len(filterableAttrs))
	for i, v := range filterableAttrs {
		filterableInterface[i] = v
	}
	_, err = s.client.Index("posts").UpdateFilterableAttributes(&filterableInterface)
	if err != nil {
		log.Printf("Failed to update posts filterable attributes: %v", err)
	}
}

// Structs for Meilisearch Indexing
type meiliPostDoc struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	AuthorUsername string   `json:"author_username"`
	CategoryID     string   `json:"category_id"`
	CategoryName   string   `json:"category_name"`
	Tags           []string `json:"tags"`
	CreatedAt      int64    `json:"created_at"`
}

func (s *meiliSearchService) cleanContentForIndex(content string) string {
	// Replace block tags with spaces to prevent text merging
	content = strings.ReplaceAll(content, "</p>", " ")
	content = strings.ReplaceAll(content, "<br>", " ")
	content = strings.ReplaceAll(content, "</div>", " ")

	sanitized := s.sanitizer.Sanitize(content)
	cleanText := html.UnescapeString(sanitized)

	return strings.Join(strings.Fields(cleanText), " ")
}

func (s *meiliSearchService) IndexPost(post *model.Post) error {
	tagNames := make([]string, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tagNames = append(tagNames, tag.Name)
	}

	doc := meiliPostDoc{
		ID:             post.ID.String(),
		Title:          post.Title,
		Content:        s.cleanContentForIndex(post.Content),
		AuthorUsername: post.Author.Username,
		Tags:           tagNames,
		CreatedAt:      post.CreatedAt.Unix(),
	}

	if post.CategoryID != nil {
		doc.CategoryID = post.CategoryID.String()
		doc.CategoryName = post.Category.Name
	}

	task, err := s.client.Index("posts").AddDocuments([]meiliPostDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed post %s, task id: %d", post.ID, task.TaskUID)
	return nil
}

func (s *meiliSearchService) DeletePost(id string) error {
	_, err := s.client.Index("posts").DeleteDocument(id)
	return err
}

func (s *meiliSearchService) SearchPosts(query string) ([]uuid.UUID, error) {
	resp, err := s.client.Index("posts").Search(query, &meilisearch.SearchRequest{
		Limit: 50,
	})
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, err
	}

	var hits []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &hits); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(hits))
	for _, hit := range hits {
		id, err := uuid.Parse(hit.ID)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func strPtr(s string) *string {
	return &s
}
