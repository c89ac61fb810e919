package store

import (
	"github.com/julianstephens/glowup/internal/models"
	"github.com/julianstephens/glowup/internal/stats"
)

func uploadedFiles(d *models.Document) *[]models.UploadedFile { return &d.Records.UploadedFiles }

func galleries(d *models.Document) *[]models.PhotoGallery { return &d.Records.Galleries }

func progressComparisons(d *models.Document) *[]models.ProgressComparison {
	return &d.Records.ProgressComparisons
}

func communityPosts(d *models.Document) *[]models.CommunityPost { return &d.Records.CommunityPosts }

func (s *Store) GetUploadedFiles() []models.UploadedFile { return list(s, uploadedFiles) }

func (s *Store) GetUploadedFile(id string) (models.UploadedFile, bool) {
	return get(s, uploadedFiles, id)
}

func (s *Store) AddUploadedFile(f models.UploadedFile) (models.UploadedFile, error) {
	if f.UploadDate == "" {
		f.UploadDate = models.FormatTimestamp(s.clock.Now())
	}
	return add(s, "uploadedFile", uploadedFiles, f)
}

func (s *Store) UpdateUploadedFile(id string, patch func(*models.UploadedFile)) (bool, error) {
	return update(s, "uploadedFile", uploadedFiles, id, patch)
}

func (s *Store) DeleteUploadedFile(id string) (bool, error) {
	return remove(s, "uploadedFile", uploadedFiles, id)
}

func (s *Store) RecordsStats() stats.RecordsSummary {
	return stats.RecordsStats(s.GetUploadedFiles())
}

func (s *Store) GetGalleries() []models.PhotoGallery { return list(s, galleries) }

func (s *Store) AddGallery(g models.PhotoGallery) (models.PhotoGallery, error) {
	return add(s, "gallery", galleries, g)
}

func (s *Store) UpdateGallery(id string, patch func(*models.PhotoGallery)) (bool, error) {
	return update(s, "gallery", galleries, id, patch)
}

func (s *Store) DeleteGallery(id string) (bool, error) { return remove(s, "gallery", galleries, id) }

func (s *Store) GetProgressComparisons() []models.ProgressComparison {
	return list(s, progressComparisons)
}

func (s *Store) AddProgressComparison(c models.ProgressComparison) (models.ProgressComparison, error) {
	return add(s, "progressComparison", progressComparisons, c)
}

func (s *Store) DeleteProgressComparison(id string) (bool, error) {
	return remove(s, "progressComparison", progressComparisons, id)
}

func (s *Store) GetCommunityPosts() []models.CommunityPost { return list(s, communityPosts) }

func (s *Store) AddCommunityPost(p models.CommunityPost) (models.CommunityPost, error) {
	return add(s, "communityPost", communityPosts, p)
}

func (s *Store) UpdateCommunityPost(id string, patch func(*models.CommunityPost)) (bool, error) {
	return update(s, "communityPost", communityPosts, id, patch)
}

func (s *Store) DeleteCommunityPost(id string) (bool, error) {
	return remove(s, "communityPost", communityPosts, id)
}
