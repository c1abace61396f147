package devapi

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"

	"fundspark/pkg/models"
	"fundspark/pkg/store"

	"github.com/go-chi/chi/v5"
)

func (s *Server) ListProjects(w http.ResponseWriter, r *http.Request) {
	campaigns, err := s.store.ListCampaigns(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("list campaigns")
		s.message(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	s.json(w, http.StatusOK, campaigns)
}

func (s *Server) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCampaignRequest
	if !s.decode(w, r, &req) {
		return
	}
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		s.message(w, http.StatusBadRequest, "Please fill in all fields.")
		return
	}
	if !positive(req.TargetAmount) {
		s.message(w, http.StatusBadRequest, "Target amount must be a positive number.")
		return
	}

	created, err := s.store.CreateCampaign(r.Context(), models.Campaign{
		Title:        title,
		Description:  description,
		TargetAmount: req.TargetAmount,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("create campaign")
		s.message(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	s.log.Info().Str("campaign", created.ID).Msg("campaign created")
	s.json(w, http.StatusCreated, created)
}

func (s *Server) CreateDonation(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")
	var req models.Donation
	if !s.decode(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.DonorName)
	if name == "" || !positive(req.Amount) {
		s.message(w, http.StatusBadRequest, "Please enter your name and a valid donation amount.")
		return
	}

	d, err := s.store.AddDonation(r.Context(), models.DonationRecord{
		CampaignID: campaignID,
		DonorName:  name,
		Amount:     req.Amount,
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.message(w, http.StatusNotFound, MsgCampaignNotFound)
		return
	case err != nil:
		s.log.Error().Err(err).Str("campaign", campaignID).Msg("record donation")
		s.message(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	s.log.Info().Str("campaign", campaignID).Str("donation", d.ID).Float64("amount", d.Amount).Msg("donation recorded")
	s.message(w, http.StatusCreated, MsgDonationRecorded)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// demoCampaigns seed an empty store.
var demoCampaigns = []models.Campaign{
	{Title: "Clean Water for Rural Schools", Description: "Install filtration units in 20 village schools.", TargetAmount: 500000, CurrentAmount: 125000},
	{Title: "Emergency Surgery for Meera", Description: "Help a seven year old get a life-saving heart operation.", TargetAmount: 300000, CurrentAmount: 210000},
	{Title: "Stray Animal Shelter", Description: "Food and vaccinations for 150 rescued dogs.", TargetAmount: 80000, CurrentAmount: 9000},
	{Title: "Library on Wheels", Description: "A mobile library visiting 12 villages every week.", TargetAmount: 150000, CurrentAmount: 60000},
}

// Seed adds the demo campaigns when the store holds none and reports how many
// were added.
func Seed(ctx context.Context, st store.Store) (int, error) {
	existing, err := st.ListCampaigns(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i, c := range demoCampaigns {
		if _, err := st.CreateCampaign(ctx, c); err != nil {
			return i, err
		}
	}
	return len(demoCampaigns), nil
}
