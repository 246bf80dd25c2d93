package typedi

// ModuleOption represents a registration action within a module.
type ModuleOption func(*Catalog) error

// NewModule creates a new module with the given name and builders.
// Modules are a way to group related service registrations together.
//
// Example:
//
//	var StorageModule = typedi.NewModule("storage",
//	    typedi.Service[*Database](typedi.Global(), typedi.WithConstructor(NewDatabase)),
//	    typedi.Service[*UserRepository](typedi.InjectFields("db")),
//	)
//
//	var AppModule = typedi.NewModule("app",
//	    StorageModule,
//	    typedi.Service[*UserService](),
//	)
//
//	catalog.AddModules(AppModule)
func NewModule(name string, builders ...ModuleOption) ModuleOption {
	return func(c *Catalog) error {
		for _, builder := range builders {
			if builder == nil {
				continue
			}

			if err := builder(c); err != nil {
				return ModuleError{Module: name, Cause: err}
			}
		}

		return nil
	}
}

// Service creates a ModuleOption registering T.
func Service[T any](opts ...ServiceOption) ModuleOption {
	return func(c *Catalog) error {
		return Register[T](c, opts...)
	}
}
