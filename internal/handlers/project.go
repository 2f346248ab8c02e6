package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/sahanr/community-backend/internal/service"
)

func ListProjectItems(w http.ResponseWriter, r *http.Request, svc *service.ProjectService) {
	items, err := svc.List(r.Context(), chi.URLParam(r, "tab"))
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]projectItemResponse, 0, len(items))
	for i := range items {
		out = append(out, projectResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func GetProjectItem(w http.ResponseWriter, r *http.Request, svc *service.ProjectService) {
	item, err := svc.Get(r.Context(), chi.URLParam(r, "tab"), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectResponse(item))
}

func CreateProjectItem(w http.ResponseWriter, r *http.Request, svc *service.ProjectService) {
	r.Body = http.MaxBytesReader(w, r.Body, projectBodyLimit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	before, beforeDone := formUpload(r, "beforePhoto")
	if beforeDone != nil {
		defer beforeDone()
	}
	after, afterDone := formUpload(r, "afterPhoto")
	if afterDone != nil {
		defer afterDone()
	}

	item, err := svc.Create(r.Context(), chi.URLParam(r, "tab"), service.CreateProjectInput{
		NationalID:  r.FormValue("nationalId"),
		Name:        r.FormValue("name"),
		Project:     r.FormValue("project"),
		GSDivision:  r.FormValue("gsDivision"),
		Address:     r.FormValue("address"),
		Description: r.FormValue("description"),
		Lat:         r.FormValue("lat"),
		Lng:         r.FormValue("lng"),
		Before:      before,
		After:       after,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, projectResponse(item))
}

func UpdateProjectItem(w http.ResponseWriter, r *http.Request, svc *service.ProjectService) {
	r.Body = http.MaxBytesReader(w, r.Body, projectBodyLimit)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	before, beforeDone := formUpload(r, "beforePhoto")
	if beforeDone != nil {
		defer beforeDone()
	}
	after, afterDone := formUpload(r, "afterPhoto")
	if afterDone != nil {
		defer afterDone()
	}

	var fields url.Values
	if r.MultipartForm != nil {
		fields = url.Values(r.MultipartForm.Value)
	}

	item, err := svc.Update(r.Context(), chi.URLParam(r, "tab"), chi.URLParam(r, "id"), service.UpdateProjectInput{
		Fields: fields,
		Before: before,
		After:  after,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projectResponse(item))
}

func DeleteProjectItem(w http.ResponseWriter, r *http.Request, svc *service.ProjectService) {
	if err := svc.Delete(r.Context(), chi.URLParam(r, "tab"), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Item deleted successfully!")
}
