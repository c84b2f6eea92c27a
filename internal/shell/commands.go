// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package shell

import (
	"context"
	"fmt"

	"github.com/tombee/lfshell/internal/accounts"
	"github.com/tombee/lfshell/internal/fileops"
	lfsherrors "github.com/tombee/lfshell/pkg/errors"
)

func builtins() []*Command {
	return []*Command{
		{
			Name: "propietario", MinArgs: 4, MaxArgs: Unbounded,
			Usage:   "propietario <nuevo_propietario|-> <nuevo_grupo|-> <archivo1> [archivo2 ... archivoN]",
			Failure: "Error al cambiar propietario/grupo",
			Run:     runPropietario,
		},
		{
			Name: "permisos", MinArgs: 3, MaxArgs: Unbounded,
			Usage:   "permisos <modo> <archivo1> [archivo2 ... archivoN]",
			Failure: "Error al cambiar permisos",
			Run:     runPermisos,
		},
		{
			Name: "copiar", MinArgs: 3, MaxArgs: 3,
			Usage:   "copiar <archivo_origen> <archivo_destino>",
			Failure: "Error al copiar el archivo",
			Run: func(_ context.Context, env *Env, argv []string) error {
				return fileops.Copy(env.Resolve(argv[1]), env.Resolve(argv[2]))
			},
		},
		{
			Name: "mover", MinArgs: 3, MaxArgs: 3,
			Usage:   "mover <archivo_origen> <archivo_destino>",
			Failure: "Error al mover el archivo",
			Run: func(_ context.Context, env *Env, argv []string) error {
				return fileops.Move(env.Resolve(argv[1]), env.Resolve(argv[2]))
			},
		},
		{
			Name: "renombrar", MinArgs: 3, MaxArgs: 3,
			Usage:   "renombrar <archivo> <nuevo_nombre>",
			Failure: "Error al renombrar el archivo",
			Run: func(_ context.Context, env *Env, argv []string) error {
				return fileops.Rename(env.Resolve(argv[1]), env.Resolve(argv[2]))
			},
		},
		{
			Name: "listar", MinArgs: 1, MaxArgs: 2,
			Usage:   "listar [directorio]",
			Failure: "Error al abrir el directorio",
			Run:     runListar,
		},
		{
			Name: "creardir", MinArgs: 2, MaxArgs: 2,
			Usage:   "creardir <nombre_directorio>",
			Failure: "Error al crear el directorio",
			Run: func(_ context.Context, env *Env, argv []string) error {
				if err := fileops.Mkdir(env.Resolve(argv[1])); err != nil {
					return err
				}
				env.Notify(fmt.Sprintf("Directorio '%s' creado exitosamente", argv[1]))
				return nil
			},
		},
		{
			Name: "ir", MinArgs: 2, MaxArgs: 2,
			Usage:   "ir <nombre_directorio>",
			Failure: "Error al cambiar de directorio",
			Run: func(_ context.Context, env *Env, argv []string) error {
				dir := env.Resolve(argv[1])
				if err := fileops.CheckDir(dir); err != nil {
					return err
				}
				// Keep the directory the kernel enters, not a lexical rewrite of the path
				dir, err := fileops.Realpath(dir)
				if err != nil {
					return err
				}
				env.Dir = dir
				env.Notify("Directorio cambiado a: " + dir)
				return nil
			},
		},
		{
			Name: "mostrar", MinArgs: 1, MaxArgs: 1,
			Usage: "mostrar",
			Run: func(_ context.Context, env *Env, _ []string) error {
				env.Print(env.Dir)
				return nil
			},
		},
		{
			Name: "clave", MinArgs: 2, MaxArgs: 2,
			Usage:   "clave <usuario>",
			Failure: "Error al cambiar la contraseña",
			Run: func(ctx context.Context, env *Env, argv []string) error {
				if env.Accounts == nil {
					return errUnavailable("cuentas")
				}
				if err := env.Accounts.ChangePassword(ctx, argv[1], env.Dir); err != nil {
					return err
				}
				env.Notify("Contraseña cambiada para: " + argv[1])
				return nil
			},
		},
		{
			Name: "demonio", MinArgs: 2, MaxArgs: 3,
			Usage:   demonioUsage,
			Failure: "Error al gestionar el demonio",
			Run:     runDemonio,
		},
		{
			Name: "usuario", MinArgs: 4, MaxArgs: 4,
			Usage:   "usuario <nombre> <horario HH:MM-HH:MM> <ips>",
			Failure: "Error al crear el usuario",
			Run: func(ctx context.Context, env *Env, argv []string) error {
				if env.Accounts == nil {
					return errUnavailable("cuentas")
				}
				p := accounts.Profile{Name: argv[1], Schedule: argv[2], IPs: argv[3]}
				if err := env.Accounts.Create(ctx, p); err != nil {
					return err
				}
				env.Notify(fmt.Sprintf("Usuario '%s' creado exitosamente", p.Name))
				return nil
			},
		},
		{
			Name: "sesion", MinArgs: 3, MaxArgs: 3,
			Usage:   "sesion <usuario> <iniciar|cerrar>",
			Failure: "Error de sesion",
			Run: func(_ context.Context, env *Env, argv []string) error {
				if env.Accounts == nil {
					return errUnavailable("cuentas")
				}
				if err := env.Accounts.ValidateSession(argv[1], argv[2]); err != nil {
					return err
				}
				env.Record(fmt.Sprintf("Sesion %s: %s", argv[2], argv[1]))
				return nil
			},
		},
		{
			Name: "exit", MinArgs: 1, MaxArgs: 1,
			Usage: "exit",
			Run: func(context.Context, *Env, []string) error {
				return ErrExit
			},
		},
	}
}

// runPropietario resolves the owner and group once, then changes each file.
// A failing file is reported and the rest are still processed.
func runPropietario(_ context.Context, env *Env, argv []string) error {
	uid, gid, err := fileops.ResolveOwner(argv[1], argv[2])
	if err != nil {
		return err
	}
	for _, name := range argv[3:] {
		if err := fileops.Chown(env.Resolve(name), uid, gid); err != nil {
			env.Fail("Error al cambiar propietario/grupo", err)
			continue
		}
		env.Notify("Propietario/grupo cambiado para: " + name)
	}
	return nil
}

func runPermisos(_ context.Context, env *Env, argv []string) error {
	mode, err := fileops.ParseMode(argv[1])
	if err != nil {
		return err
	}
	for _, name := range argv[2:] {
		if err := fileops.Chmod(env.Resolve(name), mode); err != nil {
			env.Fail("Error al cambiar permisos", err)
			continue
		}
		env.Notify("Permisos cambiados para: " + name)
	}
	return nil
}

func runListar(_ context.Context, env *Env, argv []string) error {
	dir := "."
	if len(argv) == 2 {
		dir = argv[1]
	}
	names, err := fileops.List(env.Resolve(dir))
	if err != nil {
		return err
	}
	for _, name := range names {
		env.Print(name)
	}
	return nil
}

const demonioUsage = "demonio <listar|iniciar|detener|estado> [nombre]"

func runDemonio(ctx context.Context, env *Env, argv []string) error {
	if env.Daemons == nil {
		return errUnavailable("demonios")
	}
	action := argv[1]

	if action == "listar" {
		if len(argv) != 2 {
			return &lfsherrors.UsageError{Command: "demonio", Usage: demonioUsage}
		}
		names, err := env.Daemons.List()
		if err != nil {
			return err
		}
		for _, name := range names {
			env.Print(name)
		}
		return nil
	}

	if len(argv) != 3 {
		return &lfsherrors.UsageError{Command: "demonio", Usage: demonioUsage}
	}
	name := argv[2]

	switch action {
	case "iniciar":
		if err := env.Daemons.Start(ctx, name); err != nil {
			return err
		}
		env.Notify(fmt.Sprintf("Demonio '%s' iniciado", name))
	case "detener":
		if err := env.Daemons.Stop(name); err != nil {
			return err
		}
		env.Notify(fmt.Sprintf("Demonio '%s' detenido", name))
	case "estado":
		d, err := env.Daemons.Status(name)
		if err != nil {
			return err
		}
		switch {
		case d.Running && d.Command != "":
			env.Print(fmt.Sprintf("%s: en ejecución (PID %d: %s)", name, d.PID, d.Command))
		case d.Running:
			env.Print(fmt.Sprintf("%s: en ejecución (PID %d)", name, d.PID))
		default:
			env.Print(fmt.Sprintf("%s: detenido", name))
		}
	default:
		return &lfsherrors.UsageError{Command: "demonio", Usage: demonioUsage}
	}
	return nil
}

func errUnavailable(what string) error {
	return &lfsherrors.NotFoundError{Resource: "servicio", ID: what}
}
