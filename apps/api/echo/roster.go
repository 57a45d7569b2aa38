package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/roster"
)

type rosterApi struct {
	svc      *roster.Service
	validate *validator.Validate
	logger   core.Logger
}

func registerRosterAPI(
	e *echo.Echo,
	tokenAuth echo.MiddlewareFunc,
	svc *roster.Service,
	validate *validator.Validate,
	logger core.Logger,
) {
	api := rosterApi{
		svc:      svc,
		validate: validate,
		logger:   logger,
	}

	e.GET("/weekly_data/:week", api.weeklyData, tokenAuth)
	e.POST("/weekly_data/:week", api.addWeeklyData)
	e.POST("/del/:week", api.deleteWeeklyData)
}

// Handlers

func (api *rosterApi) weeklyData(ctx echo.Context) error {
	week, err := strconv.Atoi(ctx.Param("week"))
	if err != nil {
		return roster.ErrInvalidWeek
	}
	api.logger.Info(fmt.Sprintf("getting and updating weekly data for week %d", week))

	rows, err := api.svc.Reconcile(ctx.Request().Context(), week)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rows)
}

func (api *rosterApi) addWeeklyData(ctx echo.Context) error {
	week, err := strconv.Atoi(ctx.Param("week"))
	if err != nil {
		return roster.ErrInvalidWeek
	}

	// echo's default binder only binds struct targets on parameterized
	// routes; the payload is a JSON array so decode it directly.
	var rows []roster.Row
	if err := json.NewDecoder(ctx.Request().Body).Decode(&rows); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload").SetInternal(err)
	}
	if len(rows) == 0 {
		return core.NewValidationError(errors.New("no student data provided"))
	}
	for i := range rows {
		if err := rows[i].Validate(api.validate); err != nil {
			return err
		}
	}

	if err := api.svc.Record(ctx.Request().Context(), rows); err != nil {
		return err
	}

	api.logger.Info(fmt.Sprintf("added data for %s in week %d", rows[0].Name, week))
	return ctx.String(http.StatusOK, "Weekly data inserted/updated successfully")
}

func (api *rosterApi) deleteWeeklyData(ctx echo.Context) error {
	var row roster.Row
	if err := ctx.Bind(&row); err != nil {
		return errors.Wrap(err, "binding row to delete")
	}

	// the week in the path only disambiguates logs; the body row decides
	removed, err := api.svc.Delete(ctx.Request().Context(), row.Name, row.Mail, row.Week)
	if err != nil {
		return err
	}
	if !removed {
		api.logger.Info(fmt.Sprintf("no matching data found for %s in week %d - nothing to delete", row.Name, row.Week))
		return ctx.String(http.StatusOK, "No matching data found to delete")
	}

	api.logger.Info(fmt.Sprintf("deleted data for %s in week %d", row.Name, row.Week))
	return ctx.String(http.StatusOK, "Weekly data deleted successfully")
}
