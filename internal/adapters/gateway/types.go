package gateway

import "mealms-portal/internal/core/domain"

// Wire types for the upstream Meal MS API. The upstream is a Mongo-backed
// service, so documents carry `_id` fields; everything is converted to domain
// types at this boundary and the raw shapes never leak further in.

// employeeDoc is an employee document as returned by the upstream directory
type employeeDoc struct {
	ID           string `json:"_id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	MobileNumber string `json:"mobileNumber"`
	Username     string `json:"username"`
	Role         string `json:"role"`
}

func (d employeeDoc) toDomain() domain.Employee {
	role, ok := domain.ParseRole(d.Role)
	if !ok {
		// Unknown role text from upstream is kept visible rather than dropped
		role = domain.Role(d.Role)
	}
	return domain.Employee{
		ID:           d.ID,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		MobileNumber: d.MobileNumber,
		Username:     d.Username,
		Role:         role,
	}
}

// loginRequest is the upstream login payload
type loginRequest struct {
	Username     string `json:"username"`
	MobileNumber string `json:"mobileNumber"`
}

// loginResponse is the upstream login result
type loginResponse struct {
	Token string      `json:"token"`
	User  employeeDoc `json:"user"`
}

// registerRequest is the upstream employee creation payload
type registerRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	MobileNumber string `json:"mobileNumber"`
	Username     string `json:"username"`
	Role         string `json:"role"`
}

// uploadResponse is the upstream bulk import result
type uploadResponse struct {
	Count int `json:"count"`
}

// forecastEntry is one aggregated (date, meal type) bucket from analytics
type forecastEntry struct {
	ID struct {
		Date string `json:"date"`
		Type string `json:"type"`
	} `json:"_id"`
	TotalBooked int `json:"totalBooked"`
}

// userWiseEntry is one per-user booking group from analytics
type userWiseEntry struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Bookings  []struct {
		Date string `json:"date"`
		Type string `json:"type"`
	} `json:"bookings"`
}

// analyticsResponse is the raw analytics feed
type analyticsResponse struct {
	Forecast          []forecastEntry `json:"forecast"`
	BookingUsersCount int             `json:"bookingUsersCount"`
	TotalUsers        int             `json:"totalUsers"`
	UserWise          []userWiseEntry `json:"userWise"`
}

func (r analyticsResponse) toDomain() domain.AnalyticsFeed {
	feed := domain.AnalyticsFeed{
		BookingUsersCount: r.BookingUsersCount,
		TotalUsers:        r.TotalUsers,
	}

	feed.Observations = make([]domain.BookingObservation, len(r.Forecast))
	for i, f := range r.Forecast {
		feed.Observations[i] = domain.BookingObservation{
			Date:        f.ID.Date,
			MealType:    domain.MealType(f.ID.Type),
			TotalBooked: f.TotalBooked,
		}
	}

	feed.UserSchedules = make([]domain.UserSchedule, len(r.UserWise))
	for i, u := range r.UserWise {
		schedule := domain.UserSchedule{
			EmployeeID: u.ID,
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			Username:   u.Username,
			Bookings:   make([]domain.BookingRef, len(u.Bookings)),
		}
		for j, b := range u.Bookings {
			schedule.Bookings[j] = domain.BookingRef{
				Date:     b.Date,
				MealType: domain.MealType(b.Type),
			}
		}
		feed.UserSchedules[i] = schedule
	}

	return feed
}
