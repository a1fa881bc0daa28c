package adapter

import (
	"github.com/ebaa-alsaad/archive/internal/api"
	"github.com/ebaa-alsaad/archive/internal/domain/uploadModel"
)

func ToUploadReport(upload uploadModel.Upload, groups []uploadModel.Group) api.UploadReport {

	var errorPtr *api.ReportError
	if upload.Status == uploadModel.UploadStatusFailed && upload.Message != "" {
		errorPtr = &api.ReportError{Message: upload.Message}
	}

	groupReports := make([]api.GroupReport, 0, len(groups))
	for _, group := range groups {
		groupReports = append(groupReports, ToGroupReport(group))
	}

	return api.UploadReport{
		Id:               upload.Id,
		OriginalFilename: upload.OriginalFilename,
		Status:           string(upload.Status),
		Progress:         upload.Progress,
		TotalPages:       upload.TotalPages,
		Message:          upload.Message,
		Groups:           groupReports,
		Error:            errorPtr,
		CreatedTime:      upload.CreatedTime,
		UpdatedTime:      upload.UpdatedTime,
	}
}

func ToGroupReport(group uploadModel.Group) api.GroupReport {
	return api.GroupReport{
		Name:       group.Name,
		Filename:   group.Filename,
		Code:       group.Code,
		PagesCount: group.PagesCount,
		PdfPath:    group.PdfPath,
	}
}

func ToProgressReport(uploadId string, snap uploadModel.ProgressSnapshot) api.ProgressReport {
	return api.ProgressReport{
		Id:       uploadId,
		Status:   string(snap.Status),
		Stage:    string(snap.Stage),
		Progress: snap.Progress,
		Message:  snap.Message,
		Groups:   snap.Groups,
	}
}

// FailureReport stands in for an upload that never got registered.
func FailureReport(source string, err error) api.UploadReport {
	return api.UploadReport{
		OriginalFilename: source,
		Status:           string(api.UploadStatusError),
		Groups:           []api.GroupReport{},
		Error:            &api.ReportError{Message: err.Error()},
	}
}
