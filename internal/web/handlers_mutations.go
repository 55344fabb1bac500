package web

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/JonMunkholm/freightdash/internal/core"
)

// loadsBack returns the loads tab with the filters the form was posted
// from, dropping any edit selection.
func loadsBack(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path != loadsPath || (ref.Host != "" && ref.Host != r.Host) {
		return loadsPath
	}
	q := ref.Query()
	q.Del("edit")
	if len(q) == 0 {
		return loadsPath
	}
	return loadsPath + "?" + q.Encode()
}

// parseForm parses the request body, reporting oversized or malformed
// bodies as a failed mutation.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request, title, back string) bool {
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, title, fmt.Errorf("parse form: %w", err), http.StatusBadRequest, back)
		return false
	}
	return true
}

// Loads

func (s *Server) handleCreateLoad(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed To Create Load"
	back := loadsBack(r)
	if !s.parseForm(w, r, failed, back) {
		return
	}

	load, err := s.service.CreateLoad(r.Context(), loadInput(r))
	if err != nil {
		s.respondError(w, r, failed, err, statusFor(err), back)
		return
	}
	s.respondSuccess(w, r, "Load Created Successfully!",
		fmt.Sprintf("Load #%d from %s to %s was added.", load.ID, load.Origin, load.Destination),
		http.StatusCreated, back, load)
}

func (s *Server) handleUpdateLoad(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed To Update Load"
	back := loadsBack(r)
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, failed, err, http.StatusNotFound, back)
		return
	}
	if !s.parseForm(w, r, failed, back) {
		return
	}

	load, ok, err := s.service.UpdateLoad(r.Context(), id, loadInput(r))
	if err == nil && !ok {
		err = fmt.Errorf("load %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		s.respondError(w, r, failed, err, statusFor(err), back)
		return
	}
	s.respondSuccess(w, r, "Load Updated Successfully!",
		fmt.Sprintf("Load #%d was updated.", load.ID), http.StatusOK, back, load)
}

func (s *Server) handleDeleteLoad(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed To Delete Load"
	back := loadsBack(r)
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, failed, err, http.StatusNotFound, back)
		return
	}

	if !s.service.DeleteLoad(r.Context(), id) {
		s.respondError(w, r, failed, fmt.Errorf("load %d: %w", id, core.ErrNotFound), http.StatusNotFound, back)
		return
	}
	s.respondSuccess(w, r, "Load Deleted Successfully!",
		fmt.Sprintf("Load #%d was removed.", id), http.StatusOK, back, map[string]int{"deleted": id})
}

// Drivers

func (s *Server) handleCreateDriver(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed To Create Driver"
	if !s.parseForm(w, r, failed, driversPath) {
		return
	}

	driver, err := s.service.CreateDriver(r.Context(), driverInput(r))
	if err != nil {
		s.respondError(w, r, failed, err, statusFor(err), driversPath)
		return
	}
	s.respondSuccess(w, r, "Driver created successfully!",
		fmt.Sprintf("%s was added to the roster.", driver.Name), http.StatusCreated, driversPath, driver)
}

func (s *Server) handleUpdateDriver(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed To Update Driver"
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, failed, err, http.StatusNotFound, driversPath)
		return
	}
	if !s.parseForm(w, r, failed, driversPath) {
		return
	}

	driver, ok, err := s.service.UpdateDriver(r.Context(), id, driverInput(r))
	if err == nil && !ok {
		err = fmt.Errorf("driver %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		s.respondError(w, r, failed, err, statusFor(err), driversPath)
		return
	}
	s.respondSuccess(w, r, "Driver Updated Successfully!",
		fmt.Sprintf("%s was updated.", driver.Name), http.StatusOK, driversPath, driver)
}

func (s *Server) handleDriverStatus(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed To Update Driver Status"
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, failed, err, http.StatusNotFound, driversPath)
		return
	}
	if !s.parseForm(w, r, failed, driversPath) {
		return
	}

	driver, ok, err := s.service.SetDriverStatus(r.Context(), id, r.PostFormValue("status"))
	if err == nil && !ok {
		err = fmt.Errorf("driver %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		s.respondError(w, r, failed, err, statusFor(err), driversPath)
		return
	}
	s.respondSuccess(w, r, "Driver Status Updated!",
		fmt.Sprintf("%s is now %s.", driver.Name, driver.Status), http.StatusOK, driversPath, driver)
}

func (s *Server) handleDeleteDriver(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed To Delete Driver"
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, failed, err, http.StatusNotFound, driversPath)
		return
	}

	if !s.service.DeleteDriver(r.Context(), id) {
		s.respondError(w, r, failed, fmt.Errorf("driver %d: %w", id, core.ErrNotFound), http.StatusNotFound, driversPath)
		return
	}
	s.respondSuccess(w, r, "Driver Deleted Successfully!", "", http.StatusOK, driversPath, map[string]int{"deleted": id})
}

// Trucks

func (s *Server) handleCreateTruck(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed To Create Truck"
	if !s.parseForm(w, r, failed, trucksPath) {
		return
	}

	in, err := truckInput(r)
	if err != nil {
		s.respondError(w, r, failed, err, http.StatusUnprocessableEntity, trucksPath)
		return
	}
	truck, err := s.service.CreateTruck(r.Context(), in)
	if err != nil {
		s.respondError(w, r, failed, err, statusFor(err), trucksPath)
		return
	}
	s.respondSuccess(w, r, "Truck Created Successfully!",
		fmt.Sprintf("%s was added to the fleet.", truck.LicensePlate), http.StatusCreated, trucksPath, truck)
}

func (s *Server) handleUpdateTruck(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed To Update Truck"
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, failed, err, http.StatusNotFound, trucksPath)
		return
	}
	if !s.parseForm(w, r, failed, trucksPath) {
		return
	}

	in, err := truckInput(r)
	if err != nil {
		s.respondError(w, r, failed, err, http.StatusUnprocessableEntity, trucksPath)
		return
	}
	truck, ok, err := s.service.UpdateTruck(r.Context(), id, in)
	if err == nil && !ok {
		err = fmt.Errorf("truck %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		s.respondError(w, r, failed, err, statusFor(err), trucksPath)
		return
	}
	s.respondSuccess(w, r, "Truck Updated Successfully!",
		fmt.Sprintf("%s was updated.", truck.LicensePlate), http.StatusOK, trucksPath, truck)
}

func (s *Server) handleTruckStatus(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed To Update Truck Status"
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, failed, err, http.StatusNotFound, trucksPath)
		return
	}
	if !s.parseForm(w, r, failed, trucksPath) {
		return
	}

	truck, ok, err := s.service.SetTruckStatus(r.Context(), id, r.PostFormValue("status"))
	if err == nil && !ok {
		err = fmt.Errorf("truck %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		s.respondError(w, r, failed, err, statusFor(err), trucksPath)
		return
	}
	s.respondSuccess(w, r, "Truck Status Updated!",
		fmt.Sprintf("%s is now %s.", truck.LicensePlate, truck.Status), http.StatusOK, trucksPath, truck)
}

func (s *Server) handleDeleteTruck(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed To Delete Truck"
	id, err := parseID(r)
	if err != nil {
		s.respondError(w, r, failed, err, http.StatusNotFound, trucksPath)
		return
	}

	if !s.service.DeleteTruck(r.Context(), id) {
		s.respondError(w, r, failed, fmt.Errorf("truck %d: %w", id, core.ErrNotFound), http.StatusNotFound, trucksPath)
		return
	}
	s.respondSuccess(w, r, "Truck Deleted Successfully!", "", http.StatusOK, trucksPath, map[string]int{"deleted": id})
}
