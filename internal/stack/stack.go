package stack

import "fmt"

// Имена сервисов стека. Совпадают с именами сервисов
// в deploy/docker-compose.yml.
const (
	ServicePostgres      = "postgres"
	ServiceMongo         = "mongodb"
	ServiceRedis         = "redis"
	ServiceRabbitMQ      = "rabbitmq"
	ServiceElasticsearch = "elasticsearch"
	ServiceMinIO         = "minio"
	ServiceAPI           = "api"
	ServiceAdminUI       = "admin-ui"
)

// ServiceSpec — статическое описание одного backing-сервиса.
//
// Создаётся при старте процесса и неизменяем до его завершения.
type ServiceSpec struct {
	// Name — имя сервиса в compose-проекте.
	Name string

	// Image — образ контейнера.
	Image string

	// Addr — основной адрес (host:port) для подключения клиентов.
	Addr string

	// ManagementAddr — адрес management-интерфейса, если есть.
	ManagementAddr string

	// StartupHint — подсказка порядка запуска. Сервисы с меньшим
	// значением имеет смысл проверять первыми: остальные обычно
	// стартуют дольше. Порядок именно совещательный — compose
	// запускает всё параллельно.
	StartupHint int

	// Probe — человекочитаемое описание health-check команды.
	Probe string
}

// String возвращает краткое описание сервиса.
func (s ServiceSpec) String() string {
	return fmt.Sprintf("%s (%s) at %s", s.Name, s.Image, s.Addr)
}

// Default возвращает полный набор сервисов стека.
//
// Порты совпадают с маппингом из deploy/docker-compose.yml.
func Default() []ServiceSpec {
	return []ServiceSpec{
		{
			Name:        ServicePostgres,
			Image:       "postgres:15-alpine",
			Addr:        "localhost:5432",
			StartupHint: 1,
			Probe:       "pg_isready -U stackmate",
		},
		{
			Name:        ServiceMongo,
			Image:       "mongo:7",
			Addr:        "localhost:27017",
			StartupHint: 1,
			Probe:       "mongosh --eval db.adminCommand('ping')",
		},
		{
			Name:        ServiceRedis,
			Image:       "redis:7-alpine",
			Addr:        "localhost:6379",
			StartupHint: 1,
			Probe:       "redis-cli ping",
		},
		{
			Name:           ServiceRabbitMQ,
			Image:          "rabbitmq:3-management-alpine",
			Addr:           "localhost:5672",
			ManagementAddr: "localhost:15672",
			StartupHint:    2,
			Probe:          "rabbitmq-diagnostics ping",
		},
		{
			Name:           ServiceElasticsearch,
			Image:          "elasticsearch:8.13.4",
			Addr:           "localhost:9200",
			ManagementAddr: "localhost:9300",
			StartupHint:    3,
			Probe:          "curl -f http://localhost:9200/_cluster/health",
		},
		{
			Name:        ServiceMinIO,
			Image:       "minio/minio:latest",
			Addr:        "localhost:9000",
			StartupHint: 2,
			Probe:       "mc ready local",
		},
		{
			Name:        ServiceAPI,
			Image:       "nginx:alpine",
			Addr:        "localhost:8080",
			StartupHint: 1,
			Probe:       "wget -q -O /dev/null http://localhost/health",
		},
		{
			Name:        ServiceAdminUI,
			Image:       "adminer:latest",
			Addr:        "localhost:8081",
			StartupHint: 3,
			Probe:       "php -r 'exit(0);'",
		},
	}
}

// Lookup возвращает спецификацию сервиса по имени.
func Lookup(specs []ServiceSpec, name string) (ServiceSpec, bool) {
	for _, s := range specs {
		if s.Name == name {
			return s, true
		}
	}
	return ServiceSpec{}, false
}
