package http

import (
	"net/http"

	"restaurant/internal/core/application/usecases/commands"
	"restaurant/internal/core/application/usecases/queries"
	"restaurant/internal/core/domain/model/kernel"
	"restaurant/internal/core/domain/model/table"

	"github.com/labstack/echo/v4"
)

// ListTables handles GET /api/v1/tables?free=true.
func (s *Server) ListTables(c echo.Context) error {
	freeOnly, err := queryBool(c, "free")
	if err != nil {
		return err
	}
	query := queries.NewListTablesQuery(freeOnly)
	tables, err := s.h.ListTables.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]TableDTO, 0, len(tables))
	for _, t := range tables {
		response = append(response, tableFromView(t))
	}
	return c.JSON(http.StatusOK, response)
}

// GetTable handles GET /api/v1/tables/:number.
func (s *Server) GetTable(c echo.Context) error {
	number, err := pathTableNumber(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetTableQuery(number)
	if err != nil {
		return err
	}
	view, err := s.h.GetTable.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tableFromView(view))
}

// CreateTable handles POST /api/v1/tables.
func (s *Server) CreateTable(c echo.Context) error {
	var req CreateTableRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewCreateTableCommand(kernel.NewUUID(), req.Number, req.Capacity, req.Notes)
	if err != nil {
		return err
	}
	created, err := s.h.CreateTable.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tableFromDomain(created))
}

// OccupyTable handles POST /api/v1/tables/:number/occupy.
func (s *Server) OccupyTable(c echo.Context) error {
	number, err := pathTableNumber(c)
	if err != nil {
		return err
	}
	var req OccupyTableRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewOccupyTableCommand(number, orderID, req.Staff)
	if err != nil {
		return err
	}
	occupied, err := s.h.OccupyTable.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tableFromDomain(occupied))
}

// DeleteTable handles DELETE /api/v1/tables/:number.
func (s *Server) DeleteTable(c echo.Context) error {
	if _, err := s.runTableAction(c, commands.DeleteTable); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// tableAction handles the release, reserve and maintenance routes.
func (s *Server) tableAction(action commands.TableAction) echo.HandlerFunc {
	return func(c echo.Context) error {
		updated, err := s.runTableAction(c, action)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, tableFromDomain(updated))
	}
}

func (s *Server) runTableAction(c echo.Context, action commands.TableAction) (*table.Table, error) {
	number, err := pathTableNumber(c)
	if err != nil {
		return nil, err
	}
	cmd, err := commands.NewTableActionCommand(number, action)
	if err != nil {
		return nil, err
	}
	return s.h.TableAction.Handle(c.Request().Context(), cmd)
}
