package prize

import (
	"context"
	"errors"

	"github.com/jhoicas/gacha-api/internal/application/dto"
	"github.com/jhoicas/gacha-api/internal/domain"
	domainprize "github.com/jhoicas/gacha-api/internal/domain/prize"
	"github.com/jhoicas/gacha-api/internal/domain/repository"
	"github.com/jhoicas/gacha-api/pkg/logger"
)

// Initializer carga inicial: LoadPrizes + verificación de integridad + estado vacío de respaldo.
// Es el límite terminal de errores: convierte cualquier fallo en un UserErrorDTO legible.
type Initializer struct {
	svc     *Service
	clearer repository.Clearer // backend local durable; puede ser nil
	remote  bool
	log     *logger.Logger
}

// NewInitializer construye el inicializador. remote indica si el backend activo es el remoto
// (determina el estilo de los mensajes de error).
func NewInitializer(svc *Service, clearer repository.Clearer, remote bool, log *logger.Logger) *Initializer {
	if log == nil {
		log = logger.Nop()
	}
	return &Initializer{svc: svc, clearer: clearer, remote: remote, log: log}
}

// Run ejecuta la carga. Nunca devuelve un error crudo: el resultado trae el mensaje para el usuario.
func (i *Initializer) Run(ctx context.Context) dto.InitResultDTO {
	res := dto.InitResultDTO{Remote: i.remote}

	prizes, err := i.svc.LoadPrizes(ctx)
	if err == nil {
		err = domainprize.CheckIntegrity(prizes)
	}
	if errors.Is(err, domain.ErrCorruptData) {
		i.discard(ctx, &res, err)
		return res
	}
	if err != nil {
		i.svc.Store().Set(nil)
		res.Error = i.userError(err)
		i.log.Error().Err(err).Bool("remote", i.remote).Msg("inicialización: carga fallida")
		return res
	}

	res.Loaded = len(prizes)
	i.log.Info().Int("count", res.Loaded).Bool("remote", i.remote).Msg("inicialización completada")
	return res
}

// discard vacía el Store y el almacenamiento local cuando los registros no superan la verificación.
func (i *Initializer) discard(ctx context.Context, res *dto.InitResultDTO, err error) {
	i.svc.Store().Set(nil)
	res.Cleared = true
	if i.clearer != nil {
		if cerr := i.clearer.Clear(ctx); cerr != nil {
			i.log.Error().Err(cerr).Msg("inicialización: no se pudo limpiar el almacenamiento local")
		}
	}
	res.Error = &dto.UserErrorDTO{
		Title:   "Datos de premios inválidos",
		Message: "Los datos guardados estaban dañados y se descartaron. La lista de premios empieza vacía.",
		Details: err.Error(),
	}
	i.log.Warn().Err(err).Msg("inicialización: integridad fallida, datos descartados")
}

// userError elige el mensaje por categoría en modo remoto; en modo local el mensaje es uniforme.
func (i *Initializer) userError(err error) *dto.UserErrorDTO {
	if !i.remote {
		return &dto.UserErrorDTO{
			Title:   "Error al cargar los datos",
			Message: "No se pudieron leer los premios guardados en este equipo. Se inició con una lista vacía.",
			Details: err.Error(),
		}
	}
	out := &dto.UserErrorDTO{Title: "Error de conexión con la hoja de premios", Details: err.Error()}
	switch domain.CategoryOf(err) {
	case domain.CategoryNetwork:
		out.Message = "No se pudo conectar con el servidor. Verifique la conexión a internet y que el despliegue del script permita solicitudes desde este origen (CORS)."
	case domain.CategoryUnauthorized:
		out.Message = "El script rechazó la autenticación. Vuelva a autorizar el despliegue y actualice REMOTE_URL si cambió."
	case domain.CategoryForbidden:
		out.Message = "Sin permiso para acceder al script. Compruebe que el despliegue sea accesible para cualquier usuario."
	case domain.CategoryNotFound:
		out.Message = "No se encontró el endpoint remoto. Revise que REMOTE_URL apunte al despliegue vigente."
	case domain.CategoryRateLimit:
		out.Message = "Demasiadas solicitudes al script. Espere unos minutos e intente de nuevo."
	case domain.CategoryServer:
		out.Message = "El servidor remoto tuvo un error interno. Intente más tarde."
	case domain.CategoryScript:
		out.Title = "Error en el script de la hoja"
		out.Message = "El script de la hoja de cálculo devolvió un error. Revise la hoja y los registros del script."
	default:
		out.Message = "Ocurrió un error inesperado al cargar los premios."
		if errors.Is(err, domain.ErrNotConfirmed) {
			out.Message = "La respuesta del script no tiene el formato esperado. Revise la versión desplegada."
		}
	}
	return out
}
