package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ebaa-alsaad/archive/internal/data/store"
	"github.com/ebaa-alsaad/archive/internal/domain/uploadModel"
)

func openTestDB(t *testing.T) *store.SqliteUploadStore {
	t.Helper()
	db, err := store.OpenSqliteDB(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("OpenSqliteDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return store.NewSqliteUploadStore(db)
}

func TestSqliteUploadStore_Lifecycle(t *testing.T) {
	uploadStore := openTestDB(t)
	ctx := context.Background()

	now := time.Now().Truncate(time.Second)
	upload := uploadModel.Upload{
		Id:               "upl_abc_123",
		UserId:           "7",
		OriginalFilename: "batch.pdf",
		StoredFilename:   "3f2e1d0c.pdf",
		SourcePath:       "/tmp/uploads/3f2e1d0c.pdf",
		TotalPages:       12,
		Status:           uploadModel.UploadStatusPending,
		Progress:         0,
		CreatedTime:      now,
		UpdatedTime:      now,
	}

	t.Run("Save and Get Roundtrip", func(t *testing.T) {
		if err := uploadStore.SaveUpload(ctx, upload); err != nil {
			t.Fatalf("SaveUpload failed: %v", err)
		}

		got, found := uploadStore.GetUpload(ctx, upload.Id)
		if !found {
			t.Fatal("Upload was saved but not found")
		}
		if got.Status != uploadModel.UploadStatusPending {
			t.Errorf("Status mismatch! Got %s, want %s", got.Status, uploadModel.UploadStatusPending)
		}
		if got.TotalPages != 12 || got.OriginalFilename != "batch.pdf" {
			t.Errorf("Field mismatch: %+v", got)
		}
		if !got.CreatedTime.Equal(now) {
			t.Errorf("CreatedTime mismatch! Got %v, want %v", got.CreatedTime, now)
		}
	})

	t.Run("Save Updates Existing Row", func(t *testing.T) {
		upload.Status = uploadModel.UploadStatusCompleted
		upload.Progress = 100
		upload.Message = "completed in 4.2s. groups: 3"
		upload.UpdatedTime = now.Add(5 * time.Second)
		if err := uploadStore.SaveUpload(ctx, upload); err != nil {
			t.Fatalf("second SaveUpload failed: %v", err)
		}

		got, found := uploadStore.GetUpload(ctx, upload.Id)
		if !found {
			t.Fatal("Upload missing after update")
		}
		if got.Status != uploadModel.UploadStatusCompleted || got.Progress != 100 {
			t.Errorf("Update not applied: status=%s progress=%d", got.Status, got.Progress)
		}
		if got.Message != "completed in 4.2s. groups: 3" {
			t.Errorf("Message mismatch: %q", got.Message)
		}
	})

	t.Run("Get Non-Existent Upload", func(t *testing.T) {
		_, found := uploadStore.GetUpload(ctx, "ghost-id")
		if found {
			t.Error("Expected found=false for non-existent row")
		}
	})

	t.Run("Delete Upload", func(t *testing.T) {
		uploadStore.DeleteUpload(ctx, upload.Id)
		if _, found := uploadStore.GetUpload(ctx, upload.Id); found {
			t.Error("Upload still present after DeleteUpload call")
		}
	})
}

func TestSqliteGroupStore_Lifecycle(t *testing.T) {
	db, err := store.OpenSqliteDB(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("OpenSqliteDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	groupStore := store.NewSqliteGroupStore(db)
	ctx := context.Background()

	groups := []uploadModel.Group{
		{Id: "grp_1", UploadId: "upl_1", UserId: "7", Code: "1001", Name: "_1001",
			Filename: "_1001_1.pdf", PdfPath: "/tmp/groups/_1001_1.pdf", PagesCount: 3, CreatedTime: time.Now()},
		{Id: "grp_2", UploadId: "upl_1", UserId: "7", Code: "1002", Name: "_55",
			Filename: "_55_2.pdf", PdfPath: "/tmp/groups/_55_2.pdf", PagesCount: 2, CreatedTime: time.Now()},
		{Id: "grp_3", UploadId: "upl_other", UserId: "9", Code: "", Name: "document_1",
			Filename: "document_1_1.pdf", PdfPath: "/tmp/groups/document_1_1.pdf", PagesCount: 5, CreatedTime: time.Now()},
	}
	for _, g := range groups {
		if err := groupStore.SaveGroup(ctx, g); err != nil {
			t.Fatalf("SaveGroup(%s) failed: %v", g.Id, err)
		}
	}

	t.Run("List Returns Only Matching Upload", func(t *testing.T) {
		got, err := groupStore.ListGroups(ctx, "upl_1")
		if err != nil {
			t.Fatalf("ListGroups failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 groups, got %d", len(got))
		}
		// filename order: _1001_1.pdf sorts before _55_2.pdf
		if got[0].Filename != "_1001_1.pdf" || got[1].Filename != "_55_2.pdf" {
			t.Errorf("Unexpected order: %s, %s", got[0].Filename, got[1].Filename)
		}
	})

	t.Run("List Unknown Upload Is Empty", func(t *testing.T) {
		got, err := groupStore.ListGroups(ctx, "nothing-here")
		if err != nil {
			t.Fatalf("ListGroups failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Expected no groups, got %d", len(got))
		}
	})

	t.Run("Delete Reports Count And Clears Rows", func(t *testing.T) {
		deleted, err := groupStore.DeleteGroups(ctx, "upl_1")
		if err != nil {
			t.Fatalf("DeleteGroups failed: %v", err)
		}
		if deleted != 2 {
			t.Errorf("Expected 2 deleted, got %d", deleted)
		}

		got, _ := groupStore.ListGroups(ctx, "upl_1")
		if len(got) != 0 {
			t.Errorf("Groups still present after delete: %d", len(got))
		}

		// the other upload's group is untouched
		other, _ := groupStore.ListGroups(ctx, "upl_other")
		if len(other) != 1 {
			t.Errorf("Unrelated upload lost its groups: %d", len(other))
		}
	})
}
