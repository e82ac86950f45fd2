// Package simbrief turns a saved flight plan into a SimBrief dispatch URL
package simbrief

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/pkg/browser"

	"msfs_hangar/internal/models"
)

// DispatchURL is the SimBrief flight planning form
const DispatchURL = "https://www.simbrief.com/system/dispatch.php"

var ErrNoUserID = errors.New("simbrief user id is not configured")

// Dispatcher builds dispatch URLs for one SimBrief account
type Dispatcher struct {
	UserID string
	Units  string // KGS or LBS
	open   func(string) error
}

// New returns a dispatcher that opens URLs in the default browser
func New(userID, units string) *Dispatcher {
	return &Dispatcher{UserID: userID, Units: units, open: browser.OpenURL}
}

// URL builds the dispatch URL for a plan
func (d *Dispatcher) URL(plan models.FlightPlan) (string, error) {
	if d.UserID == "" {
		return "", ErrNoUserID
	}
	if err := plan.Validate(); err != nil {
		return "", fmt.Errorf("failed to build dispatch URL: %w", err)
	}

	q := url.Values{}
	q.Set("userid", d.UserID)
	q.Set("type", string(plan.Aircraft.Model))
	q.Set("orig", plan.Departure.ICAO)
	q.Set("dest", plan.Arrival.ICAO)
	q.Set("reg", plan.Aircraft.Registration)
	if airline := plan.Aircraft.ICAO; airline != "" && airline != models.Unknown {
		q.Set("airline", airline)
	}
	if fltnum := strings.ReplaceAll(plan.FlightNumber, " ", ""); fltnum != "" {
		q.Set("fltnum", fltnum)
	}
	if d.Units != "" {
		q.Set("units", strings.ToUpper(d.Units))
	}

	return DispatchURL + "?" + q.Encode(), nil
}

// Open builds the dispatch URL and opens it in the browser
func (d *Dispatcher) Open(plan models.FlightPlan) (string, error) {
	u, err := d.URL(plan)
	if err != nil {
		return "", err
	}
	slog.Info("Opening SimBrief dispatch", "orig", plan.Departure.ICAO, "dest", plan.Arrival.ICAO, "reg", plan.Aircraft.Registration)
	if err := d.open(u); err != nil {
		return u, fmt.Errorf("failed to open browser: %w", err)
	}
	return u, nil
}
