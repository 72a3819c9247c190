package handlers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"keyflow-api-server/internal/api/middleware"
	"keyflow-api-server/internal/models"
	"keyflow-api-server/internal/sales"
)

type SalesHandler struct {
	DB *mongo.Database
}

// A yearly target of zero is a valid goal, so the field carries no required
// tag.
type SalesGoalRequest struct {
	Year              int `json:"year" binding:"required"`
	YearlySalesTarget int `json:"yearly_sales_target"`
}

// Worked is a pointer so an omitted field can default to true; only an
// explicit false records a day off.
type DailyActivityRequest struct {
	Date                  string `json:"date" binding:"required"`
	Worked                *bool  `json:"worked"`
	LeadsWalkIn           int    `json:"leads_walk_in"`
	LeadsPhone            int    `json:"leads_phone"`
	LeadsInternet         int    `json:"leads_internet"`
	Writeups              int    `json:"writeups"`
	Sales                 int    `json:"sales"`
	AppointmentsScheduled int    `json:"appointments_scheduled"`
	AppointmentsShown     int    `json:"appointments_shown"`
	OtherActivities       string `json:"other_activities"`
	Notes                 string `json:"notes"`
}

func (r DailyActivityRequest) workedOrDefault() bool {
	if r.Worked == nil {
		return true
	}
	return *r.Worked
}

// TeamMemberProgress is one row of the team leaderboard.
type TeamMemberProgress struct {
	UserID          string  `json:"user_id"`
	UserName        string  `json:"user_name"`
	DealershipID    string  `json:"dealership_id,omitempty"`
	SalesTarget     int     `json:"sales_target"`
	TotalSales      int     `json:"total_sales"`
	TotalLeads      int     `json:"total_leads"`
	ProgressPercent float64 `json:"progress_percent"`
}

// trackerUserFilter narrows a user_id query to the accounts the caller may
// read. Staff see only themselves; admins see their dealership's users.
func (h *SalesHandler) trackerUserFilter(caller models.User, requestedUserID string) (bson.M, error) {
	switch caller.Role {
	case models.RoleOwner:
		if requestedUserID != "" {
			return bson.M{"user_id": requestedUserID}, nil
		}
		return bson.M{}, nil
	case models.RoleDealershipAdmin:
		cursor, err := h.DB.Collection("users").Find(context.Background(),
			bson.M{"dealership_id": caller.DealershipID},
			options.Find().SetProjection(bson.M{"id": 1}))
		if err != nil {
			return nil, err
		}
		var users []models.User
		if err = cursor.All(context.Background(), &users); err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		if requestedUserID != "" {
			for _, id := range ids {
				if id == requestedUserID {
					return bson.M{"user_id": requestedUserID}, nil
				}
			}
		}
		return bson.M{"user_id": bson.M{"$in": ids}}, nil
	default:
		return bson.M{"user_id": caller.ID}, nil
	}
}

// CreateSalesGoal records the caller's yearly target. One goal per year.
func (h *SalesHandler) CreateSalesGoal(c *gin.Context) {
	var req SalesGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller := middleware.CurrentUser(c)
	goals := h.DB.Collection("sales_goals")

	count, err := goals.CountDocuments(context.Background(),
		bson.M{"user_id": caller.ID, "year": req.Year})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for goal"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Goal already exists for this year. Use update instead."})
		return
	}

	goal := models.SalesGoal{
		ID:                uuid.New().String(),
		UserID:            caller.ID,
		Year:              req.Year,
		YearlySalesTarget: req.YearlySalesTarget,
		CreatedAt:         time.Now().UTC(),
	}
	if _, err := goals.InsertOne(context.Background(), goal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create goal"})
		return
	}

	c.JSON(http.StatusCreated, goal)
}

// GetSalesGoals lists goals visible to the caller, optionally filtered by
// user and year.
func (h *SalesHandler) GetSalesGoals(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	filter, err := h.trackerUserFilter(caller, c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user scope"})
		return
	}
	if year := c.Query("year"); year != "" {
		if y, err := strconv.Atoi(year); err == nil {
			filter["year"] = y
		}
	}

	cursor, err := h.DB.Collection("sales_goals").Find(context.Background(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query goals"})
		return
	}
	defer cursor.Close(context.Background())

	var goals []models.SalesGoal
	if err = cursor.All(context.Background(), &goals); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode goals"})
		return
	}
	if goals == nil {
		goals = []models.SalesGoal{}
	}

	c.JSON(http.StatusOK, goals)
}

// UpdateSalesGoal replaces a goal's year and target. Staff may only touch
// their own goals.
func (h *SalesHandler) UpdateSalesGoal(c *gin.Context) {
	var req SalesGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller := middleware.CurrentUser(c)
	goals := h.DB.Collection("sales_goals")

	var goal models.SalesGoal
	err := goals.FindOne(context.Background(), bson.M{"id": c.Param("id")}).Decode(&goal)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goal"})
		}
		return
	}

	if goal.UserID != caller.ID && caller.Role != models.RoleOwner && caller.Role != models.RoleDealershipAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot update other users' goals"})
		return
	}

	_, err = goals.UpdateOne(context.Background(), bson.M{"id": goal.ID},
		bson.M{"$set": bson.M{"year": req.Year, "yearly_sales_target": req.YearlySalesTarget}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update goal"})
		return
	}

	if err := goals.FindOne(context.Background(), bson.M{"id": goal.ID}).Decode(&goal); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goal"})
		return
	}
	c.JSON(http.StatusOK, goal)
}

// UpsertDailyActivity creates or replaces the caller's ledger row for a date.
func (h *SalesHandler) UpsertDailyActivity(c *gin.Context) {
	var req DailyActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller := middleware.CurrentUser(c)
	activities := h.DB.Collection("daily_activities")

	fields := bson.M{
		"date":                   req.Date,
		"worked":                 req.workedOrDefault(),
		"leads_walk_in":          req.LeadsWalkIn,
		"leads_phone":            req.LeadsPhone,
		"leads_internet":         req.LeadsInternet,
		"writeups":               req.Writeups,
		"sales":                  req.Sales,
		"appointments_scheduled": req.AppointmentsScheduled,
		"appointments_shown":     req.AppointmentsShown,
		"other_activities":       req.OtherActivities,
		"notes":                  req.Notes,
	}

	var existing models.DailyActivity
	err := activities.FindOne(context.Background(),
		bson.M{"user_id": caller.ID, "date": req.Date}).Decode(&existing)
	switch {
	case err == nil:
		if _, err := activities.UpdateOne(context.Background(),
			bson.M{"id": existing.ID}, bson.M{"$set": fields}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update activity"})
			return
		}
		if err := activities.FindOne(context.Background(), bson.M{"id": existing.ID}).Decode(&existing); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity"})
			return
		}
		c.JSON(http.StatusOK, existing)
	case err == mongo.ErrNoDocuments:
		activity := models.DailyActivity{
			ID:                    uuid.New().String(),
			UserID:                caller.ID,
			Date:                  req.Date,
			Worked:                req.workedOrDefault(),
			LeadsWalkIn:           req.LeadsWalkIn,
			LeadsPhone:            req.LeadsPhone,
			LeadsInternet:         req.LeadsInternet,
			Writeups:              req.Writeups,
			Sales:                 req.Sales,
			AppointmentsScheduled: req.AppointmentsScheduled,
			AppointmentsShown:     req.AppointmentsShown,
			OtherActivities:       req.OtherActivities,
			Notes:                 req.Notes,
			CreatedAt:             time.Now().UTC(),
		}
		if _, err := activities.InsertOne(context.Background(), activity); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create activity"})
			return
		}
		c.JSON(http.StatusCreated, activity)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error checking for activity"})
	}
}

// GetDailyActivities lists ledger rows visible to the caller, newest first,
// optionally bounded by start_date/end_date (inclusive, YYYY-MM-DD).
func (h *SalesHandler) GetDailyActivities(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	filter, err := h.trackerUserFilter(caller, c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user scope"})
		return
	}

	dateFilter := bson.M{}
	if start := c.Query("start_date"); start != "" {
		dateFilter["$gte"] = start
	}
	if end := c.Query("end_date"); end != "" {
		dateFilter["$lte"] = end
	}
	if len(dateFilter) > 0 {
		filter["date"] = dateFilter
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(1000)
	cursor, err := h.DB.Collection("daily_activities").Find(context.Background(), filter, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query activities"})
		return
	}
	defer cursor.Close(context.Background())

	var activities []models.DailyActivity
	if err = cursor.All(context.Background(), &activities); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode activities"})
		return
	}
	if activities == nil {
		activities = []models.DailyActivity{}
	}

	c.JSON(http.StatusOK, activities)
}

// loadYearActivities fetches one user's ledger rows for a calendar year.
func (h *SalesHandler) loadYearActivities(userID string, year int) ([]models.DailyActivity, error) {
	cursor, err := h.DB.Collection("daily_activities").Find(context.Background(), bson.M{
		"user_id": userID,
		"date": bson.M{
			"$gte": fmt.Sprintf("%d-01-01", year),
			"$lte": fmt.Sprintf("%d-12-31", year),
		},
	})
	if err != nil {
		return nil, err
	}
	var activities []models.DailyActivity
	if err = cursor.All(context.Background(), &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// GetSalesProgress computes one user's year-to-date progress against their
// goal. Staff may only request themselves; admins only their dealership.
func (h *SalesHandler) GetSalesProgress(c *gin.Context) {
	caller := middleware.CurrentUser(c)
	userID := c.Param("user_id")

	year := time.Now().Year()
	if y := c.Query("year"); y != "" {
		if parsed, err := strconv.Atoi(y); err == nil {
			year = parsed
		}
	}

	if models.IsStandardRole(caller.Role) && caller.ID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot view other users' progress"})
		return
	}
	if caller.Role == models.RoleDealershipAdmin {
		var target models.User
		err := h.DB.Collection("users").FindOne(context.Background(), bson.M{"id": userID}).Decode(&target)
		if err == nil && target.DealershipID != caller.DealershipID {
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot view users from other dealerships"})
			return
		}
	}

	var goal *models.SalesGoal
	var stored models.SalesGoal
	err := h.DB.Collection("sales_goals").FindOne(context.Background(),
		bson.M{"user_id": userID, "year": year}).Decode(&stored)
	switch {
	case err == nil:
		goal = &stored
	case err == mongo.ErrNoDocuments:
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goal"})
		return
	}

	activities, err := h.loadYearActivities(userID, year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query activities"})
		return
	}

	c.JSON(http.StatusOK, sales.ComputeProgress(goal, activities, year, time.Now().UTC()))
}

// GetTeamSalesProgress builds the leaderboard for every non-owner account in
// the caller's scope.
func (h *SalesHandler) GetTeamSalesProgress(c *gin.Context) {
	caller := middleware.CurrentUser(c)

	year := time.Now().Year()
	if y := c.Query("year"); y != "" {
		if parsed, err := strconv.Atoi(y); err == nil {
			year = parsed
		}
	}

	userFilter := bson.M{}
	if caller.Role == models.RoleDealershipAdmin {
		userFilter["dealership_id"] = caller.DealershipID
	}

	cursor, err := h.DB.Collection("users").Find(context.Background(), userFilter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query users"})
		return
	}
	var users []models.User
	if err = cursor.All(context.Background(), &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode users"})
		return
	}

	team := []TeamMemberProgress{}
	for _, u := range users {
		if u.Role == models.RoleOwner {
			continue
		}

		var target int
		var goal models.SalesGoal
		err := h.DB.Collection("sales_goals").FindOne(context.Background(),
			bson.M{"user_id": u.ID, "year": year}).Decode(&goal)
		if err == nil {
			target = goal.YearlySalesTarget
		} else if err != mongo.ErrNoDocuments {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve goal"})
			return
		}

		activities, err := h.loadYearActivities(u.ID, year)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query activities"})
			return
		}

		totalSales, totalLeads := 0, 0
		for _, a := range activities {
			totalSales += a.Sales
			totalLeads += a.LeadsWalkIn + a.LeadsPhone + a.LeadsInternet
		}

		progressPercent := 0.0
		if target > 0 {
			progressPercent = math.Round(float64(totalSales)/float64(target)*1000) / 10
		}

		team = append(team, TeamMemberProgress{
			UserID:          u.ID,
			UserName:        u.Name,
			DealershipID:    u.DealershipID,
			SalesTarget:     target,
			TotalSales:      totalSales,
			TotalLeads:      totalLeads,
			ProgressPercent: progressPercent,
		})
	}

	c.JSON(http.StatusOK, team)
}
